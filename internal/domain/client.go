package domain

import (
	"strings"
	"time"
)

// ClientDetails identifies the invoice recipient and the bill itself.
type ClientDetails struct {
	ClientName     string     `form:"clientName" validate:"min=2"`
	ClientAddress  string     `form:"clientAddress"`
	ClientPostcode string     `form:"clientPostcode"`
	ClientCountry  string     `form:"clientCountry" validate:"min=1"`
	Subject        string     `form:"subject"`
	BillNumber     string     `form:"billNumber" validate:"min=1"`
	BillDate       time.Time  `form:"billDate" validate:"required"`
	DeliveryDate   time.Time  `form:"deliveryDate" validate:"required"`
	BillDueDate    *time.Time `form:"billDueDate" validate:"omitempty"`
	TaxNumber      string     `form:"taxnumber"`
}

// Normalize trims surrounding whitespace from the text fields.
func (c ClientDetails) Normalize() ClientDetails {
	c.ClientName = strings.TrimSpace(c.ClientName)
	c.ClientAddress = strings.TrimSpace(c.ClientAddress)
	c.ClientPostcode = strings.TrimSpace(c.ClientPostcode)
	c.ClientCountry = strings.TrimSpace(c.ClientCountry)
	c.Subject = strings.TrimSpace(c.Subject)
	c.BillNumber = strings.TrimSpace(c.BillNumber)
	c.TaxNumber = strings.TrimSpace(c.TaxNumber)
	return c
}

// clone copies the due date so the result shares no pointers with c.
func (c ClientDetails) clone() ClientDetails {
	if c.BillDueDate != nil {
		due := *c.BillDueDate
		c.BillDueDate = &due
	}
	return c
}

// IsOverdue reports whether the due date lies before now.
func (c ClientDetails) IsOverdue(now time.Time) bool {
	return c.BillDueDate != nil && now.After(*c.BillDueDate)
}
