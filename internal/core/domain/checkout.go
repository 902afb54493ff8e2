package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutForm struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	Email     string `json:"email" validate:"notblank,email,emaildomain"`
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	ZipCode   string `json:"zipCode" validate:"notblank,zipcode"`
}

var checkoutMessages = messages{
	"firstName.notblank": "First name is required",
	"lastName.notblank":  "Last name is required",
	"email.notblank":     "Email is required",
	"email":              "Please enter a valid email address.",
	"address.notblank":   "Address is required",
	"city.notblank":      "City is required",
	"zipCode.notblank":   "Zip code is required",
	"zipCode":            "Please enter a valid zip code.",
}

// Validate returns one message per failing field, nil when the form
// may be submitted. Values are checked with surrounding spaces removed.
func (f CheckoutForm) Validate() FieldErrors {
	return checkoutMessages.fieldErrors(validate.Struct(f.trimmed()))
}

func (f CheckoutForm) trimmed() CheckoutForm {
	return CheckoutForm{
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
		Email:     strings.TrimSpace(f.Email),
		Address:   strings.TrimSpace(f.Address),
		City:      strings.TrimSpace(f.City),
		ZipCode:   strings.TrimSpace(f.ZipCode),
	}
}

type CheckoutStatus string

const (
	CheckoutStatusEmpty     CheckoutStatus = "empty"
	CheckoutStatusForm      CheckoutStatus = "form"
	CheckoutStatusConfirmed CheckoutStatus = "confirmed"
)

type Order struct {
	ID       string
	Lines    []CartLine
	Total    decimal.Decimal
	Customer CheckoutForm
	PlacedAt time.Time
}

func (o Order) ItemCount() int {
	return Cart{Lines: o.Lines}.ItemCount()
}
