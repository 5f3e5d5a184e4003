package payment

import (
	"errors"
	"testing"
)

func TestValidateCard(t *testing.T) {
	ok := Details{
		Method:     MethodCard,
		CardNumber: "4111 1111 1111 1111",
		CardExpiry: "09/27",
		CardCVV:    "123",
	}
	if err := Validate(ok); err != nil {
		t.Fatalf("expected valid card, got %v", err)
	}
}

func TestValidateCardRejectsBadFields(t *testing.T) {
	bad := Details{
		Method:     MethodCard,
		CardNumber: "1234",
		CardExpiry: "13/27",
		CardCVV:    "12",
	}
	err := Validate(bad)
	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("expected field errors, got %v", err)
	}
	for _, field := range []string{"cardNumber", "cardExpiry", "cardCvv"} {
		if _, found := fe[field]; !found {
			t.Fatalf("expected error for %s, got %v", field, fe)
		}
	}
}

func TestValidateCardExpiryFormat(t *testing.T) {
	cases := map[string]bool{
		"01/26": true,
		"12/30": true,
		"00/26": false,
		"13/26": false,
		"1/26":  false,
		"01-26": false,
	}
	for expiry, want := range cases {
		d := Details{Method: MethodCard, CardNumber: "4111111111111111", CardExpiry: expiry, CardCVV: "999"}
		err := Validate(d)
		if want && err != nil {
			t.Fatalf("expiry %q: expected valid, got %v", expiry, err)
		}
		if !want && err == nil {
			t.Fatalf("expiry %q: expected error", expiry)
		}
	}
}

func TestValidateEWallet(t *testing.T) {
	if err := Validate(Details{Method: MethodEWallet, WalletPhone: "+971501234567"}); err != nil {
		t.Fatalf("expected valid phone, got %v", err)
	}
	if err := Validate(Details{Method: MethodEWallet, WalletPhone: "abc"}); err == nil {
		t.Fatal("expected phone error")
	}
}

func TestValidateBankTransfer(t *testing.T) {
	if err := Validate(Details{Method: MethodBankTransfer, BankAccount: "1234567890"}); err != nil {
		t.Fatalf("expected valid account, got %v", err)
	}
	if err := Validate(Details{Method: MethodBankTransfer, BankAccount: "12"}); err == nil {
		t.Fatal("expected account error")
	}
}

func TestValidateCashOnDelivery(t *testing.T) {
	if err := Validate(Details{Method: MethodCashOnDelivery}); err != nil {
		t.Fatalf("cod should not require fields, got %v", err)
	}
}

func TestValidateUnknownMethod(t *testing.T) {
	err := Validate(Details{Method: "crypto"})
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("expected unsupported method error, got %v", err)
	}
}
