package payment

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Method identifies how an order is paid.
type Method string

const (
	MethodCard           Method = "card"
	MethodEWallet        Method = "ewallet"
	MethodBankTransfer   Method = "bank_transfer"
	MethodCashOnDelivery Method = "cod"
)

// ErrUnsupportedMethod is returned for unknown payment methods.
var ErrUnsupportedMethod = errors.New("unsupported payment method")

// Details carries the raw payment fields submitted at checkout.
type Details struct {
	Method      Method `json:"method"`
	CardNumber  string `json:"cardNumber,omitempty"`
	CardExpiry  string `json:"cardExpiry,omitempty"`
	CardCVV     string `json:"cardCvv,omitempty"`
	WalletPhone string `json:"walletPhone,omitempty"`
	BankAccount string `json:"bankAccount,omitempty"`
}

// FieldErrors maps field names to validation messages.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid payment fields: %s", strings.Join(fields, ", "))
}

var (
	cardNumberRe  = regexp.MustCompile(`^[0-9]{13,19}$`)
	cardExpiryRe  = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)
	cardCVVRe     = regexp.MustCompile(`^[0-9]{3,4}$`)
	walletPhoneRe = regexp.MustCompile(`^\+?[0-9]{8,15}$`)
	bankAccountRe = regexp.MustCompile(`^[0-9]{8,20}$`)
)

// Validate checks the payment details for the selected method. Card
// numbers may contain spaces, which are stripped before matching. Cash
// on delivery needs no extra fields.
func Validate(d Details) error {
	switch d.Method {
	case MethodCard:
		fe := FieldErrors{}
		number := strings.ReplaceAll(d.CardNumber, " ", "")
		if !cardNumberRe.MatchString(number) {
			fe["cardNumber"] = "must be 13 to 19 digits"
		}
		if !cardExpiryRe.MatchString(d.CardExpiry) {
			fe["cardExpiry"] = "must match MM/YY"
		}
		if !cardCVVRe.MatchString(d.CardCVV) {
			fe["cardCvv"] = "must be 3 or 4 digits"
		}
		if len(fe) > 0 {
			return fe
		}
		return nil
	case MethodEWallet:
		if !walletPhoneRe.MatchString(d.WalletPhone) {
			return FieldErrors{"walletPhone": "must be a valid phone number"}
		}
		return nil
	case MethodBankTransfer:
		if !bankAccountRe.MatchString(d.BankAccount) {
			return FieldErrors{"bankAccount": "must be 8 to 20 digits"}
		}
		return nil
	case MethodCashOnDelivery:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, d.Method)
	}
}
