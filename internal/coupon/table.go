package coupon

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidCode is returned for codes that are not in the table.
	ErrInvalidCode = errors.New("invalid coupon code")
	// ErrNotApplicable is returned when the cart cannot carry the coupon,
	// e.g. a fixed-amount coupon against an empty cart.
	ErrNotApplicable = errors.New("coupon not applicable")
)

// Kind enumerates the supported coupon discount strategies.
type Kind string

const (
	// KindPercent discounts a percentage of the current subtotal.
	KindPercent Kind = "percent"
	// KindFixed discounts a fixed amount, capped at the subtotal.
	KindFixed Kind = "fixed"
)

// Rule describes one recognised coupon code.
type Rule struct {
	Code  string
	Kind  Kind
	Value decimal.Decimal
}

// Table resolves coupon codes to the percentage applied to the cart.
type Table struct {
	rules map[string]Rule
}

// NewTable builds a lookup table from the provided rules. Codes are matched
// case-insensitively.
func NewTable(rules ...Rule) *Table {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		t.rules[strings.ToUpper(strings.TrimSpace(r.Code))] = r
	}
	return t
}

// DefaultTable carries the storefront's recognised codes.
func DefaultTable() *Table {
	return NewTable(
		Rule{Code: "SAVE10", Kind: KindPercent, Value: decimal.NewFromInt(10)},
		Rule{Code: "WELCOME15", Kind: KindPercent, Value: decimal.NewFromInt(15)},
		Rule{Code: "DISCOUNT20", Kind: KindPercent, Value: decimal.NewFromInt(20)},
		Rule{Code: "ELECTRONICS25", Kind: KindPercent, Value: decimal.NewFromInt(25)},
		Rule{Code: "SAVE400", Kind: KindFixed, Value: decimal.NewFromInt(400)},
	)
}

// Resolve maps a code to the discount percentage for the given subtotal.
//
// Fixed-amount coupons are normalized into an equivalent percentage of the
// subtotal at the moment they are applied: min(value, subtotal)/subtotal*100.
// The percentage is what persists on the cart, so the effective discount of a
// fixed coupon is frozen relative to the subtotal at application time and
// does not rescale when items are added or removed afterwards. Surprising,
// but it is the contract: cart and checkout recompute from the same stored
// percentage and therefore always agree.
func (t *Table) Resolve(code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if t == nil {
		return decimal.Zero, ErrInvalidCode
	}
	rule, ok := t.rules[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return decimal.Zero, ErrInvalidCode
	}
	switch rule.Kind {
	case KindPercent:
		return rule.Value, nil
	case KindFixed:
		if !subtotal.IsPositive() {
			return decimal.Zero, ErrNotApplicable
		}
		amount := rule.Value
		if amount.GreaterThan(subtotal) {
			amount = subtotal
		}
		return amount.Div(subtotal).Mul(decimal.NewFromInt(100)), nil
	default:
		return decimal.Zero, ErrInvalidCode
	}
}
