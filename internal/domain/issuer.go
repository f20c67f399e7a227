package domain

import "strings"

// Issuer is the business sending the invoice.
type Issuer struct {
	Name      string `form:"name" validate:"min=2"`
	Address   string `form:"address" validate:"min=2"`
	Postcode  string `form:"postcode" validate:"min=2"`
	Country   string `form:"country" validate:"min=1"`
	TaxNumber string `form:"taxNumber" validate:"min=2"`
	Email     string `form:"email" validate:"omitempty,email"`
	Website   string `form:"website"`
	BankName  string `form:"bankName"`
	IBAN      string `form:"iban"`
	BIC       string `form:"bic"`
}

// Normalize trims surrounding whitespace from every field.
func (i Issuer) Normalize() Issuer {
	return Issuer{
		Name:      strings.TrimSpace(i.Name),
		Address:   strings.TrimSpace(i.Address),
		Postcode:  strings.TrimSpace(i.Postcode),
		Country:   strings.TrimSpace(i.Country),
		TaxNumber: strings.TrimSpace(i.TaxNumber),
		Email:     strings.TrimSpace(i.Email),
		Website:   strings.TrimSpace(i.Website),
		BankName:  strings.TrimSpace(i.BankName),
		IBAN:      strings.ReplaceAll(strings.TrimSpace(i.IBAN), " ", ""),
		BIC:       strings.TrimSpace(i.BIC),
	}
}

// HasBankDetails reports whether any payment field is filled in.
func (i Issuer) HasBankDetails() bool {
	return i.BankName != "" || i.IBAN != "" || i.BIC != ""
}
