package validation

import (
	"testing"
	"time"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIssuer() domain.Issuer {
	return domain.Issuer{
		Name:      "Jane Doe",
		Address:   "Main St 1",
		Postcode:  "10115",
		Country:   "DE",
		TaxNumber: "DE123",
	}
}

func validClient() domain.ClientDetails {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return domain.ClientDetails{
		ClientName:    "Acme",
		ClientCountry: "DE",
		BillNumber:    "1",
		BillDate:      day,
		DeliveryDate:  day,
	}
}

func validPosition() domain.LineItem {
	return domain.LineItem{
		Name:       "Logo",
		Amount:     2,
		Unit:       "pcs",
		UnitPrice:  100,
		Currency:   "EUR",
		TaxPercent: 19,
	}
}

func TestIssuer(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		mutate func(*domain.Issuer)
		want   Errors
	}{
		{"valid", func(*domain.Issuer) {}, Errors{}},
		{"short name", func(i *domain.Issuer) { i.Name = "J" }, Errors{"name": {Tag: "min", Param: "2"}}},
		{"empty country", func(i *domain.Issuer) { i.Country = "" }, Errors{"country": {Tag: "min", Param: "1"}}},
		{"bad email", func(i *domain.Issuer) { i.Email = "nope" }, Errors{"email": {Tag: "email"}}},
		{"good email", func(i *domain.Issuer) { i.Email = "jane@example.com" }, Errors{}},
		{"short tax number", func(i *domain.Issuer) { i.TaxNumber = "1" }, Errors{"taxNumber": {Tag: "min", Param: "2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validIssuer()
			tt.mutate(&in)
			assert.Equal(t, tt.want, v.Issuer(in))
		})
	}
}

func TestClient(t *testing.T) {
	v := New()

	assert.True(t, v.Client(validClient()).Valid())

	c := validClient()
	c.ClientName = "A"
	c.BillNumber = ""
	c.BillDate = time.Time{}
	errs := v.Client(c)
	assert.Equal(t, []string{"billDate", "billNumber", "clientName"}, errs.Fields())
	assert.Equal(t, "required", errs["billDate"].Tag)
}

func TestText(t *testing.T) {
	v := New()
	assert.True(t, v.Text("hello").Valid())
	assert.True(t, v.Text("  ").Has("text"))
}

func TestPositions(t *testing.T) {
	v := New()

	t.Run("empty", func(t *testing.T) {
		errs := v.Positions(nil)
		assert.Equal(t, Errors{"positions": {Tag: "atLeastOne"}}, errs)
	})

	t.Run("valid", func(t *testing.T) {
		assert.True(t, v.Positions([]domain.LineItem{validPosition()}).Valid())
	})

	t.Run("indexed fields", func(t *testing.T) {
		bad := validPosition()
		bad.UnitPrice = 0.5
		bad.Currency = ""
		errs := v.Positions([]domain.LineItem{validPosition(), bad})
		assert.Equal(t, []string{"positions.1.currency", "positions.1.unitPrice"}, errs.Fields())
		assert.Equal(t, Rule{Tag: "gte", Param: "1"}, errs["positions.1.unitPrice"])
	})
}

func TestStep(t *testing.T) {
	v := New()

	assert.False(t, v.Step(wizard.SubmitIssuer{}).Valid())
	assert.True(t, v.Step(wizard.SubmitIssuer{Issuer: validIssuer()}).Valid())
	assert.True(t, v.Step(wizard.SubmitClient{Client: validClient()}).Valid())
	assert.True(t, v.Step(wizard.SubmitText{Text: "x"}).Valid())
	assert.False(t, v.Step(wizard.SubmitPositions{}).Valid())
	assert.True(t, v.Step(wizard.Back{}).Valid())
	assert.True(t, v.Step(nil).Valid())
}

func TestDraft(t *testing.T) {
	v := New()
	d := domain.Draft{
		Issuer:    validIssuer(),
		Client:    validClient(),
		Text:      "x",
		Positions: []domain.LineItem{validPosition()},
	}
	assert.True(t, v.Draft(d).Valid())

	d.Text = ""
	d.Positions = nil
	assert.Equal(t, []string{"positions", "text"}, v.Draft(d).Fields())
}

func TestErrors_Message(t *testing.T) {
	msgs, err := i18n.Load("en")
	require.NoError(t, err)

	errs := Errors{
		"name":  {Tag: "min", Param: "2"},
		"email": {Tag: "email"},
	}
	assert.Equal(t, "Must be at least 2 characters", errs.Message("name", msgs))
	assert.Equal(t, "Not a valid email address", errs.Message("email", msgs))
	assert.Equal(t, "", errs.Message("country", msgs))
	assert.EqualError(t, errs, "invalid fields: email: email, name: min=2")
}
