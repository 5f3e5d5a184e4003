package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testConfig() Config {
	return Config{
		TaxRateBps:            500,
		ShippingFlatFee:       decimal.NewFromInt(60),
		FreeShippingThreshold: decimal.NewFromInt(1000),
	}
}

func item(id string, price int64) LineItem {
	return LineItem{ProductID: id, Name: id, UnitPrice: decimal.NewFromInt(price), Quantity: 1}
}

func addUnits(c *Cart, id string, price int64, qty int) {
	c.AddItem(item(id, price))
	c.UpdateQuantity(id, qty)
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	var c Cart
	c.AddItem(item("p1", 500))
	c.AddItem(item("p1", 500))
	c.AddItem(item("p2", 100))

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 for p1, got %d", c.Items[0].Quantity)
	}
	if got := c.TotalItems(); got != 3 {
		t.Fatalf("expected 3 units, got %d", got)
	}
}

func TestAddItemIgnoresRequestedQuantity(t *testing.T) {
	var c Cart
	c.AddItem(LineItem{ProductID: "p1", UnitPrice: decimal.NewFromInt(500), Quantity: 3})

	if len(c.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 1 {
		t.Fatalf("new line must start at quantity 1, got %d", c.Items[0].Quantity)
	}

	// an existing line still grows one unit at a time
	c.AddItem(LineItem{ProductID: "p1", UnitPrice: decimal.NewFromInt(500), Quantity: 7})
	if c.Items[0].Quantity != 2 {
		t.Fatalf("expected quantity 2 after re-add, got %d", c.Items[0].Quantity)
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	var c Cart
	c.AddItem(item("p1", 500))
	c.RemoveItem("p1")
	after := len(c.Items)
	c.RemoveItem("p1")
	if len(c.Items) != after || after != 0 {
		t.Fatalf("repeated removal changed state: %d items", len(c.Items))
	}
	c.RemoveItem("missing")
}

func TestUpdateQuantityFloor(t *testing.T) {
	var c Cart
	c.AddItem(item("p1", 500))

	c.UpdateQuantity("p1", 4)
	if c.Items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", c.Items[0].Quantity)
	}

	c.UpdateQuantity("p1", 0)
	if len(c.Items) != 0 {
		t.Fatal("quantity below one must remove the line")
	}

	// unknown ids are ignored
	c.UpdateQuantity("ghost", 3)
	if len(c.Items) != 0 {
		t.Fatal("update on missing product mutated the cart")
	}
}

func TestSubtotalRecomputedFresh(t *testing.T) {
	var c Cart
	c.AddItem(item("p1", 500))
	c.AddItem(item("p2", 120))
	c.UpdateQuantity("p1", 2)
	c.UpdateQuantity("p2", 3)
	c.RemoveItem("p2")

	want := decimal.NewFromInt(1000)
	if !c.Subtotal().Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, c.Subtotal())
	}
}

func TestProductDiscountNonNegative(t *testing.T) {
	var c Cart
	sale := item("p1", 400)
	sale.OriginalUnitPrice = decimal.NewNullDecimal(decimal.NewFromInt(500))
	c.AddItem(sale)
	c.UpdateQuantity("p1", 2)

	if !c.OriginalTotal().Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected original total 1000, got %s", c.OriginalTotal())
	}
	if !c.ProductDiscount().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected product discount 200, got %s", c.ProductDiscount())
	}

	// price inversion clamps at zero rather than producing a negative discount
	var inverted Cart
	bad := item("p2", 500)
	bad.OriginalUnitPrice = decimal.NewNullDecimal(decimal.NewFromInt(400))
	inverted.AddItem(bad)
	if inverted.ProductDiscount().IsNegative() {
		t.Fatalf("product discount went negative: %s", inverted.ProductDiscount())
	}
}

func TestCouponReplacesNotStacks(t *testing.T) {
	var c Cart
	addUnits(&c, "p1", 500, 2)

	c.ApplyCoupon("SAVE10", decimal.NewFromInt(10))
	c.ApplyCoupon("DISCOUNT20", decimal.NewFromInt(20))

	if c.CouponCode != "DISCOUNT20" {
		t.Fatalf("expected DISCOUNT20 active, got %q", c.CouponCode)
	}
	want := decimal.NewFromInt(200)
	if !c.CouponDiscount().Equal(want) {
		t.Fatalf("expected coupon discount %s, got %s", want, c.CouponDiscount())
	}
}

func TestRemoveCouponKeepsItems(t *testing.T) {
	var c Cart
	addUnits(&c, "p1", 500, 2)
	c.ApplyCoupon("SAVE10", decimal.NewFromInt(10))
	c.RemoveCoupon()

	if c.CouponCode != "" || c.CouponPercent.Valid {
		t.Fatal("coupon not cleared")
	}
	if len(c.Items) != 1 {
		t.Fatal("removing coupon must not touch items")
	}
	if !c.CouponDiscount().IsZero() {
		t.Fatalf("expected zero discount, got %s", c.CouponDiscount())
	}
}

func TestFinalTotalFormula(t *testing.T) {
	// subtotal 1000, SAVE10 -> coupon 100, taxable 900, shipping 60 (not
	// strictly above threshold), tax 45, total 1005.
	var c Cart
	addUnits(&c, "p1", 500, 2)
	c.ApplyCoupon("SAVE10", decimal.NewFromInt(10))

	s := c.Summarize(testConfig())
	assertEq(t, "subtotal", s.Subtotal, "1000")
	assertEq(t, "couponDiscount", s.CouponDiscount, "100")
	assertEq(t, "shipping", s.Shipping, "60")
	assertEq(t, "tax", s.Tax, "45")
	assertEq(t, "total", s.Total, "1005")
}

func TestFreeShippingBoundary(t *testing.T) {
	// subtotal 1001 is strictly above the threshold: shipping waived,
	// tax 50.05, total 1051.05.
	var c Cart
	c.AddItem(LineItem{ProductID: "p1", UnitPrice: decimal.RequireFromString("1001"), Quantity: 1})

	s := c.Summarize(testConfig())
	assertEq(t, "shipping", s.Shipping, "0")
	assertEq(t, "tax", s.Tax, "50.05")
	assertEq(t, "total", s.Total, "1051.05")

	// exactly at the threshold the flat fee still applies
	var edge Cart
	edge.AddItem(item("p1", 1000))
	if !edge.Summarize(testConfig()).Shipping.Equal(decimal.NewFromInt(60)) {
		t.Fatal("subtotal equal to threshold must still pay shipping")
	}
}

func TestFullyDiscountedCart(t *testing.T) {
	// a 100% coupon (fixed coupon larger than the subtotal, normalized by
	// the resolver) cannot discount below zero
	var c Cart
	c.AddItem(item("p1", 300))
	c.ApplyCoupon("SAVE400", decimal.NewFromInt(100))

	s := c.Summarize(testConfig())
	assertEq(t, "couponDiscount", s.CouponDiscount, "300")
	assertEq(t, "tax", s.Tax, "0")
	assertEq(t, "total", s.Total, "60")
}

func TestClearDropsItemsAndCoupon(t *testing.T) {
	var c Cart
	addUnits(&c, "p1", 500, 2)
	c.ApplyCoupon("SAVE10", decimal.NewFromInt(10))
	c.Clear()

	if len(c.Items) != 0 || c.CouponCode != "" || c.CouponPercent.Valid {
		t.Fatal("clear must drop items and coupon together")
	}
	s := c.Summarize(testConfig())
	assertEq(t, "total", s.Total, "0")
	if !s.Shipping.IsZero() {
		t.Fatal("empty cart must not be charged shipping")
	}
}

func assertEq(t *testing.T, name string, got Money, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("expected %s %s, got %s", name, want, got)
	}
}
