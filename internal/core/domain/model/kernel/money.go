package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrMoneyIsNotConstructed is returned when a Money instance was not created
// through one of the constructor functions.
var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"Money must be created via NewMoney, MoneyFromDecimal, or MoneyFromString")

// Money is an immutable value object for monetary amounts. It is backed by an
// arbitrary-precision decimal so that order totals never accumulate binary
// floating point drift.
//
// Money is always non-negative: the platform records prices and totals, never
// debts. Arithmetic returns new instances.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney creates a Money value from major and minor units, e.g. NewMoney(12, 50)
// for 12.50. Returns an error if either part is negative or cents exceed 99.
func NewMoney(units int64, cents int64) (Money, error) {
	if units < 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("units", fmt.Errorf("%d is negative", units))
	}
	if cents < 0 || cents > 99 {
		return Money{}, errs.NewValueIsOutOfRangeError("cents", cents, 0, 99)
	}

	amount := decimal.NewFromInt(units).Add(decimal.New(cents, -2))
	return Money{amount: amount, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromDecimal creates a Money value from a raw decimal.
// Returns an error if the decimal is negative.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", d))
	}
	return Money{amount: d, guard: guard.NewConstructorGuard()}, nil
}

// MoneyFromString parses a Money value from its decimal string representation.
// Typically used when reconstructing amounts from persistence.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return MoneyFromDecimal(d)
}

// ZeroMoney returns a valid Money value of zero.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

// Add returns the sum of two Money values.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

// MulQuantity returns the Money value multiplied by an item quantity.
func (m Money) MulQuantity(quantity int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))), guard: guard.NewConstructorGuard()}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual compares two Money values by amount.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal returns the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String returns the decimal string representation, e.g. "12.5".
func (m Money) String() string {
	return m.amount.String()
}

// Validate checks if the Money value was properly constructed.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
