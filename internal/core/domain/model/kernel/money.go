package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount.
const MoneyScale = 2

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney, MoneyFromString or ZeroMoney")

// Money is a non-negative amount rounded to MoneyScale digits. Unit prices,
// line totals and order totals are all Money.
type Money struct { //nolint:recvcheck //using for validation
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney rounds amount to MoneyScale digits and rejects negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money is invalid", fmt.Errorf("%s is negative", amount.String()))
	}
	return Money{
		amount: amount.Round(MoneyScale),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal literal such as "10.50".
func MoneyFromString(s string) (Money, error) {
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money is invalid", err)
	}
	return NewMoney(amount)
}

// ZeroMoney returns a constructed zero amount, the neutral element of Add.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the underlying decimal.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

// Multiply returns m × quantity. quantity is a positive item count.
func (m Money) Multiply(quantity int) Money {
	return Money{
		amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))),
		guard:  guard.NewConstructorGuard(),
	}
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly MoneyScale digits.
func (m Money) String() string {
	return m.amount.StringFixed(MoneyScale)
}
