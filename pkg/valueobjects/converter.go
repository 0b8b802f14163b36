// pkg/valueobjects/converter.go
package valueobjects

import (
	"fmt"

	"github.com/shopspring/decimal"
	apperrors "github.com/triptally/triptally-backend/errors"
	"github.com/triptally/triptally-backend/types"
)

// settlementScale is the minor-unit precision of the settlement currency (THB).
const settlementScale = 2

// validCurrencies maintains the set of supported original currencies.
var validCurrencies = map[types.Currency]bool{
	types.CurrencyTHB: true,
	types.CurrencyJPY: true,
}

// IsValidCurrency reports whether the currency is supported.
func IsValidCurrency(c types.Currency) bool {
	return validCurrencies[c]
}

// ToSettlement converts an amount in its original currency to the settlement
// currency. JPY amounts are multiplied by the buffer rate; any other supported
// currency passes through unchanged and the rate is ignored.
//
// The result is NOT rounded: rounding happens only at monetary display and
// summation points, via RoundSettlement.
func ToSettlement(amount decimal.Decimal, currency types.Currency, rate decimal.Decimal) (decimal.Decimal, error) {
	if !IsValidCurrency(currency) {
		return decimal.Zero, apperrors.ValidationFailed(
			"invalid currency",
			fmt.Sprintf("currency %s is not supported", currency),
		)
	}

	if currency != types.CurrencyJPY {
		return amount, nil
	}

	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, apperrors.InvalidRate(
			fmt.Sprintf("buffer rate must be positive, got %s", rate.String()),
		)
	}

	return amount.Mul(rate), nil
}

// EvenShare returns one participant's even fraction of a settlement-currency
// total. The division is exact to decimal precision; no remainder is carried.
func EvenShare(total decimal.Decimal, participants int) (decimal.Decimal, error) {
	if participants <= 0 {
		return decimal.Zero, apperrors.ValidationFailed(
			"invalid split",
			"participant count must be positive",
		)
	}
	return total.Div(decimal.NewFromInt(int64(participants))), nil
}

// RoundSettlement rounds to the settlement currency's minor unit using
// round-half-up. Apply only when a figure is published on a snapshot or total.
func RoundSettlement(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(settlementScale)
}
