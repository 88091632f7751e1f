package middleware

import (
	"bytes"
	"io"
	"net/http"

	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/idgen"
	"payment-orchestrator/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey is the optional header activating the
// idempotency gate on mutating requests.
const HeaderIdempotencyKey = "Idempotency-Key"

// maxIdempotencyKeyLen bounds the header per §6.
const maxIdempotencyKeyLen = 256

// bodyCapturingWriter buffers everything written to the response so the
// idempotency middleware can persist the exact bytes a replay must
// reproduce byte-for-byte.
type bodyCapturingWriter struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (w *bodyCapturingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency creates a middleware that gates POST/PUT/PATCH requests
// carrying an Idempotency-Key header through ports.IdempotencyService.
// Requires APIKeyAuth to have run first so CtxMerchantID is set.
//
// A completed record with a matching fingerprint short-circuits the
// handler entirely, replaying the stored status code and body. A
// fingerprint mismatch or an in-flight record produces 409 before the
// handler runs. Otherwise the request proceeds and, once the handler
// finishes, the response is persisted against the key for future replay.
func Idempotency(svc ports.IdempotencyService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			response.Error(c, apperror.Validation("Idempotency-Key exceeds 256 bytes"))
			c.Abort()
			return
		}

		merchantIDVal, _ := c.Get(CtxMerchantID)
		merchantID, _ := merchantIDVal.(string)
		if merchantID == "" {
			response.Error(c, apperror.ErrMissingAPIKey())
			c.Abort()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.Validation("cannot read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		fingerprint := idgen.Fingerprint(bodyBytes, c.FullPath(), method)

		record, done, err := svc.StartProcessing(c.Request.Context(), key, merchantID, fingerprint, c.FullPath(), method)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if done {
			c.Data(record.ResponseStatus, gin.MIMEJSON, record.ResponseBody)
			c.Abort()
			return
		}

		capture := &bodyCapturingWriter{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = capture

		// A panic in the handler unwinds straight past c.Next() to the
		// global Recovery() middleware registered ahead of this one, so
		// without this defer the record below is never reached and the
		// key stays stuck at status=processing for the full TTL. Remove
		// it here, then re-panic so Recovery still produces the 500.
		defer func() {
			if r := recover(); r != nil {
				if err := svc.Remove(c.Request.Context(), key, merchantID); err != nil {
					log.Error().Err(err).Str("key", key).Msg("failed to remove idempotency record after panic")
				}
				panic(r)
			}
		}()

		c.Next()

		if err := svc.Complete(c.Request.Context(), key, merchantID, capture.buf.Bytes(), capture.Status()); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to persist idempotency completion")
		}
	}
}
