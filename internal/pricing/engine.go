package pricing

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal currency amount in major units.
type Money = decimal.Decimal

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
	tenK    = decimal.NewFromInt(10000)
)

// Config holds the pricing constants applied on top of the cart contents.
// These are configuration, not engine state.
type Config struct {
	// TaxRateBps is the VAT rate in basis points (500 = 5%), applied to the
	// post-coupon, pre-shipping amount.
	TaxRateBps int64
	// ShippingFlatFee is charged unless the subtotal is strictly greater
	// than FreeShippingThreshold.
	ShippingFlatFee       Money
	FreeShippingThreshold Money
}

// LineItem is one product entry in a cart. Name, Image and Stock are display
// metadata and never participate in computation.
type LineItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Image     string `json:"image,omitempty"`
	// UnitPrice is the current selling price per unit.
	UnitPrice Money `json:"unitPrice"`
	// OriginalUnitPrice is the pre-discount price when the product is on
	// sale. Absent (invalid) means the item carries no product discount.
	OriginalUnitPrice decimal.NullDecimal `json:"originalUnitPrice,omitempty"`
	Quantity          int                 `json:"quantity"`
	Stock             int                 `json:"stock,omitempty"`
}

// ReferenceUnitPrice resolves the pre-discount price, falling back to the
// selling price when no original price is recorded.
func (li LineItem) ReferenceUnitPrice() Money {
	if li.OriginalUnitPrice.Valid {
		return li.OriginalUnitPrice.Decimal
	}
	return li.UnitPrice
}

// Cart owns the line items and the (at most one) applied coupon. It is a
// plain value intended for exclusive, single-writer access; callers sharing
// a cart across requests must serialise mutations externally.
type Cart struct {
	Items []LineItem `json:"items"`
	// CouponCode is present iff CouponPercent is present and > 0.
	CouponCode    string              `json:"couponCode,omitempty"`
	CouponPercent decimal.NullDecimal `json:"couponPercent,omitempty"`
}

// AddItem increments the quantity of the existing line when the product is
// already in the cart, and otherwise appends a new line with quantity one.
// The requested quantity on the incoming item is ignored either way; larger
// quantities are reached through UpdateQuantity. Stock ceilings are the
// caller's concern.
func (c *Cart) AddItem(item LineItem) {
	if item.ProductID == "" {
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity for a line item. A quantity below one
// removes the line. Unknown product ids are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		c.RemoveItem(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes the line item if present. Removing an absent item is a
// no-op, so repeated removals are idempotent.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the items and drops the coupon together. Used after a
// successful order.
func (c *Cart) Clear() {
	c.Items = nil
	c.RemoveCoupon()
}

// ApplyCoupon attaches the coupon, replacing any previously applied one.
// Resolution of the code to a percentage happens before this call.
func (c *Cart) ApplyCoupon(code string, percent Money) {
	if code == "" || !percent.IsPositive() {
		return
	}
	c.CouponCode = code
	c.CouponPercent = decimal.NewNullDecimal(percent)
}

// RemoveCoupon clears the applied coupon without touching the items.
func (c *Cart) RemoveCoupon() {
	c.CouponCode = ""
	c.CouponPercent = decimal.NullDecimal{}
}

// OriginalTotal is the pre-any-discount reference total:
// sum of (originalUnitPrice ?? unitPrice) * quantity.
func (c *Cart) OriginalTotal() Money {
	total := zero
	for _, it := range c.Items {
		if it.Quantity < 1 {
			continue
		}
		total = total.Add(it.ReferenceUnitPrice().Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Subtotal is the current subtotal: sum of unitPrice * quantity. Per-product
// discounts are already baked into the unit price.
func (c *Cart) Subtotal() Money {
	total := zero
	for _, it := range c.Items {
		if it.Quantity < 1 {
			continue
		}
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// ProductDiscount is the accumulated per-product discount, clamped at zero
// so a caller-side price inversion can never produce a negative discount.
func (c *Cart) ProductDiscount() Money {
	d := c.OriginalTotal().Sub(c.Subtotal())
	if d.IsNegative() {
		return zero
	}
	return d
}

// CouponDiscount is subtotal * percent/100, zero when no coupon is applied.
// The amount is capped at the subtotal.
func (c *Cart) CouponDiscount() Money {
	if !c.CouponPercent.Valid || !c.CouponPercent.Decimal.IsPositive() {
		return zero
	}
	subtotal := c.Subtotal()
	discount := subtotal.Mul(c.CouponPercent.Decimal).Div(hundred)
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

// TotalItems counts units across all lines, not distinct products.
func (c *Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	return n
}

// Summary aggregates every number the cart and checkout screens display.
// Both screens derive from the same Summarize call so they always agree.
type Summary struct {
	OriginalTotal   Money `json:"originalTotal"`
	Subtotal        Money `json:"subtotal"`
	ProductDiscount Money `json:"productDiscount"`
	CouponDiscount  Money `json:"couponDiscount"`
	Shipping        Money `json:"shipping"`
	Tax             Money `json:"tax"`
	Total           Money `json:"total"`
	TotalItems      int   `json:"totalItems"`
}

// Summarize computes the full pricing breakdown. The ordering is load
// bearing: tax applies to the coupon-discounted amount before shipping, and
// shipping is waived only when the subtotal strictly exceeds the threshold.
func (c *Cart) Summarize(cfg Config) Summary {
	subtotal := c.Subtotal()
	coupon := c.CouponDiscount()

	taxable := subtotal.Sub(coupon)
	if taxable.IsNegative() {
		taxable = zero
	}
	tax := taxable.Mul(decimal.NewFromInt(cfg.TaxRateBps)).Div(tenK)

	shipping := zero
	if len(c.Items) > 0 && !subtotal.GreaterThan(cfg.FreeShippingThreshold) {
		shipping = cfg.ShippingFlatFee
	}

	return Summary{
		OriginalTotal:   round(c.OriginalTotal()),
		Subtotal:        round(subtotal),
		ProductDiscount: round(c.ProductDiscount()),
		CouponDiscount:  round(coupon),
		Shipping:        round(shipping),
		Tax:             round(tax),
		Total:           round(taxable.Add(tax).Add(shipping)),
		TotalItems:      c.TotalItems(),
	}
}

// FinalTotal is the amount charged at checkout.
func (c *Cart) FinalTotal(cfg Config) Money {
	return c.Summarize(cfg).Total
}

func round(m Money) Money {
	return m.Round(2)
}
