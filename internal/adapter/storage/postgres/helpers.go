package postgres

import (
	"fmt"

	"payment-orchestrator/internal/core/money"
)

// newMoneyFromDB parses a NUMERIC column (scanned as its textual
// representation) back into a money.Money paired with its currency
// column. Scanning NUMERIC as text rather than into decimal.Decimal
// directly avoids depending on pgx's NUMERIC<->decimal.Decimal wire
// codec being registered, which differs between pgx's simple and
// extended query protocols.
func newMoneyFromDB(amount, currency string) (money.Money, error) {
	m, err := money.NewFromString(amount, currency)
	if err != nil {
		return money.Money{}, fmt.Errorf("parse stored amount: %w", err)
	}
	return m, nil
}
