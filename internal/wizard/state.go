// Package wizard implements the invoice-creation step sequencer. It is a
// pure reducer over a sealed set of actions: no I/O and no validation.
package wizard

import "github.com/andy/invoicewiz/internal/domain"

// Step is a 1-based wizard step index.
type Step int

const (
	StepIssuer Step = iota + 1
	StepClient
	StepText
	StepPositions
	// StepDone is reached after the last step has been submitted.
	StepDone
)

// StepCount is the number of data-entry steps.
const StepCount = int(StepPositions)

// String returns the step name
func (s Step) String() string {
	switch s {
	case StepIssuer:
		return "Your details"
	case StepClient:
		return "Client details"
	case StepText:
		return "Invoice text"
	case StepPositions:
		return "Positions"
	case StepDone:
		return "Review"
	default:
		return "Unknown"
	}
}

// StepInfo describes one data-entry step.
type StepInfo struct {
	Step Step
	// SubTitleKey is the message catalog key of the step's subtitle.
	SubTitleKey string
}

var steps = []StepInfo{
	{Step: StepIssuer, SubTitleKey: "wizard.subTitle.stepOne"},
	{Step: StepClient, SubTitleKey: "wizard.subTitle.stepTwo"},
	{Step: StepText, SubTitleKey: "wizard.subTitle.stepThree"},
	{Step: StepPositions, SubTitleKey: "wizard.subTitle.stepFour"},
}

// Steps lists the data-entry steps in order.
func Steps() []StepInfo {
	out := make([]StepInfo, len(steps))
	copy(out, steps)
	return out
}

// State is the wizard's position and the data accumulated so far.
type State struct {
	Step  Step
	Draft domain.Draft
}

// New returns the initial state for draft.
func New(draft domain.Draft) State {
	return State{Step: StepIssuer, Draft: draft.Clone()}
}

// Complete reports whether every step has been submitted.
func (s State) Complete() bool {
	return s.Step == StepDone
}
