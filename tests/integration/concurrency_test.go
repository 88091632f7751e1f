package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentIdempotentPayments fires the same idempotency key at the
// payments endpoint from many goroutines at once. Exactly one of them
// must win the advisory-locked creation path; every other goroutine must
// observe either an in-progress conflict or a replay of the same payment
// id, and the store must never end up holding two payments for one key.
func TestConcurrentIdempotentPayments(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	apiKey := app.newAPIKey(t, "merchant-concurrent")
	const concurrency = 20
	const idemKey = "concurrent-idem-key-001"

	body := map[string]any{
		"amount":   "10.0000",
		"currency": "USD",
		"provider": "stripesim",
	}

	var wg sync.WaitGroup
	ids := make([]string, concurrency)
	statuses := make([]int, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resp := app.createPayment(t, apiKey, idemKey, body)
			defer resp.Body.Close()
			statuses[idx] = resp.StatusCode
			if resp.StatusCode == http.StatusCreated {
				var decoded map[string]any
				if json.NewDecoder(resp.Body).Decode(&decoded) == nil {
					if data, ok := decoded["data"].(map[string]any); ok {
						ids[idx] = data["id"].(string)
					}
				}
			}
		}(i)
	}
	wg.Wait()

	successIDs := make(map[string]struct{})
	for i, status := range statuses {
		switch status {
		case http.StatusCreated:
			successIDs[ids[i]] = struct{}{}
		case http.StatusConflict:
			// an in-flight or already-completed sibling raced this goroutine
		default:
			t.Fatalf("unexpected status %d for goroutine %d", status, i)
		}
	}

	assert.Len(t, successIDs, 1, "one idempotency key must resolve to exactly one payment regardless of concurrent submission")
}

// TestConcurrentRefunds_AmountConservation fires many concurrent partial
// refund requests against a single payment, each carrying its own
// idempotency key so they are treated as distinct refund attempts. The
// advisory lock keyed by payment id must serialize them so the sum of
// completed refunds never exceeds the original payment amount.
func TestConcurrentRefunds_AmountConservation(t *testing.T) {
	app := newTestApp(t)
	defer app.close()

	apiKey := app.newAPIKey(t, "merchant-concurrent-refund")

	resp := app.createPayment(t, apiKey, "concurrent-refund-setup", map[string]any{
		"amount": "100.0000", "currency": "USD", "provider": "stripesim",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	paymentID := created["data"].(map[string]any)["id"].(string)

	// 15 concurrent attempts to refund 10 each against a 100 payment:
	// at most 10 can ever complete before the balance is exhausted.
	const concurrency = 15
	var wg sync.WaitGroup
	var completed atomic.Int64
	var rejected atomic.Int64

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			idemKey := fmt.Sprintf("concurrent-refund-%d", idx)
			resp := app.createRefund(t, apiKey, paymentID, idemKey, map[string]any{
				"amount": "10.0000", "reason": "concurrent test",
			})
			defer resp.Body.Close()
			switch resp.StatusCode {
			case http.StatusCreated:
				completed.Add(1)
			case http.StatusBadRequest:
				rejected.Add(1)
			default:
				t.Errorf("unexpected refund status %d", resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, completed.Load(), int64(10), "refunds must never exceed the payment's original amount")
	assert.Equal(t, int64(concurrency), completed.Load()+rejected.Load(), "every concurrent refund attempt must resolve")

	// The remaining available balance must match exactly what the
	// completed refunds actually consumed.
	reqSummary, _ := http.NewRequest(http.MethodGet, app.server.URL+"/api/v1/payments/"+paymentID+"/refundable", nil)
	reqSummary.Header.Set("X-API-Key", apiKey)
	respSummary, err := http.DefaultClient.Do(reqSummary)
	require.NoError(t, err)
	defer respSummary.Body.Close()
	var summary map[string]any
	require.NoError(t, json.NewDecoder(respSummary.Body).Decode(&summary))
	totalRefunded := summary["data"].(map[string]any)["total_refunded"].(string)
	assert.Equal(t, fmt.Sprintf("%d.0000", completed.Load()*10), totalRefunded)
}
