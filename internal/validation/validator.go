// Package validation checks wizard step payloads before they are submitted.
package validation

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/andy/invoicewiz/internal/domain"
	"github.com/andy/invoicewiz/internal/i18n"
	"github.com/andy/invoicewiz/internal/wizard"
	"github.com/go-playground/validator/v10"
)

// Rule is one failed constraint on a field.
type Rule struct {
	Tag   string
	Param string
}

// Errors maps form field keys to their first failed rule. Position fields
// are keyed as "positions.<index>.<field>".
type Errors map[string]Rule

// Valid reports whether no rule failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// Has reports whether field failed a rule.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failed field keys in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for f := range e {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Message returns the localized error text for field, or "" when it is
// valid.
func (e Errors) Message(field string, msgs i18n.Messages) string {
	r, ok := e[field]
	if !ok {
		return ""
	}
	if r.Param == "" {
		return msgs.T("errors." + r.Tag)
	}
	return msgs.T("errors."+r.Tag, r.Param)
}

// Error implements error so callers can return Errors directly.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		r := e[f]
		if r.Param != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s", f, r.Tag, r.Param))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", f, r.Tag))
		}
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// Validator applies the per-step rules declared on the domain types.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports fields by their form key.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Issuer validates the step-one payload.
func (v *Validator) Issuer(in domain.Issuer) Errors {
	return v.check("", in)
}

// Client validates the step-two payload.
func (v *Validator) Client(in domain.ClientDetails) Errors {
	return v.check("", in)
}

// Text validates the step-three payload.
func (v *Validator) Text(text string) Errors {
	if strings.TrimSpace(text) == "" {
		return Errors{"text": {Tag: "required"}}
	}
	return Errors{}
}

// Positions validates the step-four payload. At least one position is
// required.
func (v *Validator) Positions(items []domain.LineItem) Errors {
	errs := Errors{}
	if len(items) == 0 {
		errs["positions"] = Rule{Tag: "atLeastOne"}
		return errs
	}
	for i, item := range items {
		for field, rule := range v.check(fmt.Sprintf("positions.%d.", i), item) {
			errs[field] = rule
		}
	}
	return errs
}

// Step validates the payload carried by a submit action. Back and unknown
// actions carry nothing to validate.
func (v *Validator) Step(a wizard.Action) Errors {
	switch act := a.(type) {
	case wizard.SubmitIssuer:
		return v.Issuer(act.Issuer)
	case wizard.SubmitClient:
		return v.Client(act.Client)
	case wizard.SubmitText:
		return v.Text(act.Text)
	case wizard.SubmitPositions:
		return v.Positions(act.Positions)
	default:
		return Errors{}
	}
}

// Draft validates every step of a completed draft.
func (v *Validator) Draft(d domain.Draft) Errors {
	errs := Errors{}
	for _, part := range []Errors{
		v.Issuer(d.Issuer),
		v.Client(d.Client),
		v.Text(d.Text),
		v.Positions(d.Positions),
	} {
		for f, r := range part {
			errs[f] = r
		}
	}
	return errs
}

func (v *Validator) check(prefix string, s any) Errors {
	errs := Errors{}
	err := v.v.Struct(s)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs[prefix+"_"] = Rule{Tag: "invalid"}
		return errs
	}
	for _, fe := range verrs {
		key := prefix + fe.Field()
		if _, seen := errs[key]; !seen {
			errs[key] = Rule{Tag: fe.Tag(), Param: fe.Param()}
		}
	}
	return errs
}
