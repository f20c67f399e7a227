package wizard

import "github.com/andy/invoicewiz/internal/domain"

// Action is an event the wizard reduces into a new State. The set of
// implementations is closed to this package.
type Action interface {
	// Type names the action for logging.
	Type() string
	isAction()
}

// SubmitIssuer carries the validated step-one payload.
type SubmitIssuer struct {
	Issuer domain.Issuer
}

// SubmitClient carries the validated step-two payload.
type SubmitClient struct {
	Client domain.ClientDetails
}

// SubmitText carries the validated step-three payload.
type SubmitText struct {
	Text string
}

// SubmitPositions carries the validated step-four payload.
type SubmitPositions struct {
	Positions []domain.LineItem
}

// Back returns to the previous step.
type Back struct{}

func (SubmitIssuer) Type() string    { return "submit-step-one" }
func (SubmitClient) Type() string    { return "submit-step-two" }
func (SubmitText) Type() string      { return "submit-step-three" }
func (SubmitPositions) Type() string { return "submit-step-four" }
func (Back) Type() string            { return "back" }

func (SubmitIssuer) isAction()    {}
func (SubmitClient) isAction()    {}
func (SubmitText) isAction()      {}
func (SubmitPositions) isAction() {}
func (Back) isAction()            {}
