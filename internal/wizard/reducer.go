package wizard

import "github.com/andy/invoicewiz/internal/domain"

// Reduce returns the state that follows s after a. Submitting step k
// overwrites that step's part of the draft and moves to k+1; Back moves one
// step back but never below StepIssuer. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SubmitIssuer:
		next := s.clone()
		next.Draft.Issuer = act.Issuer
		next.Step = StepClient
		return next

	case SubmitClient:
		next := s.clone()
		next.Draft.Client = act.Client
		if act.Client.BillDueDate != nil {
			due := *act.Client.BillDueDate
			next.Draft.Client.BillDueDate = &due
		}
		next.Step = StepText
		return next

	case SubmitText:
		next := s.clone()
		next.Draft.Text = act.Text
		next.Step = StepPositions
		return next

	case SubmitPositions:
		next := s.clone()
		next.Draft.Positions = recalculated(act.Positions)
		next.Step = StepDone
		return next

	case Back:
		if s.Step <= StepIssuer {
			return s
		}
		next := s.clone()
		next.Step = s.Step - 1
		return next

	default:
		return s
	}
}

func (s State) clone() State {
	return State{Step: s.Step, Draft: s.Draft.Clone()}
}

// recalculated copies items and refreshes each derived gross amount so the
// stored draft always satisfies the price invariant.
func recalculated(items []domain.LineItem) []domain.LineItem {
	out := domain.ClonePositions(items)
	for i := range out {
		out[i].Recalculate()
	}
	return out
}
