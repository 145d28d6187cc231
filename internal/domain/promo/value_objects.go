package promo

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidCode          = errors.New("invalid promo code format")
	ErrInvalidDiscountValue = errors.New("invalid discount value")
)

var codeRegex = regexp.MustCompile(`^[A-Z0-9]{3,20}$`)

// Code is a normalized (upper-cased) promo code. Lookups are case-insensitive.
type Code string

func NewCode(code string) (Code, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !codeRegex.MatchString(code) {
		return Code(""), ErrInvalidCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// Discount computes the amount taken off an eligible subtotal. All monetary
// math is integer cents; the percentage branch rounds half-up.
type Discount struct {
	kind  DiscountType
	value int64 // percent for PERCENTAGE, cents for FIXED
}

func NewDiscount(kind DiscountType, value int64) (Discount, error) {
	if !kind.IsValid() || value < 0 {
		return Discount{}, ErrInvalidDiscountValue
	}
	if kind == DiscountPercentage && value > 100 {
		return Discount{}, ErrInvalidDiscountValue
	}
	return Discount{kind: kind, value: value}, nil
}

func (d Discount) Type() DiscountType {
	return d.kind
}

func (d Discount) Value() int64 {
	return d.value
}

// AmountFor returns the discount in cents for the given eligible subtotal.
// Never negative, never more than the subtotal itself.
func (d Discount) AmountFor(eligibleSubtotalCents int64) int64 {
	if eligibleSubtotalCents <= 0 {
		return 0
	}
	var amount int64
	switch d.kind {
	case DiscountPercentage:
		amount = (eligibleSubtotalCents*d.value + 50) / 100
	case DiscountFixed:
		amount = d.value
	}
	if amount > eligibleSubtotalCents {
		amount = eligibleSubtotalCents
	}
	return amount
}
