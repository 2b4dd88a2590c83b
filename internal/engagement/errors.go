package engagement

import (
	"fmt"
	"strings"
)

// Step names one stage of the orchestration pipeline.
type Step string

const (
	StepReaction      Step = "reaction"
	StepPoints        Step = "points"
	StepBadges        Step = "badges"
	StepChallenges    Step = "challenges"
	StepNotifications Step = "notifications"
)

// StepError records one failed step.
type StepError struct {
	Step Step  `json:"step"`
	Err  error `json:"-"`
}

func (e StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e StepError) Unwrap() error { return e.Err }

// PartialFailure aggregates step failures from one orchestration run. Steps
// that succeeded are not rolled back; the caller may retry the whole
// triggering action.
type PartialFailure struct {
	Steps []StepError
}

func (p *PartialFailure) Error() string {
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.Error()
	}
	return "partial orchestration failure: " + strings.Join(parts, "; ")
}

// Unwrap exposes the step errors to errors.Is / errors.As.
func (p *PartialFailure) Unwrap() []error {
	errs := make([]error, len(p.Steps))
	for i, s := range p.Steps {
		errs[i] = s.Err
	}
	return errs
}

func (p *PartialFailure) add(step Step, err error) {
	p.Steps = append(p.Steps, StepError{Step: step, Err: err})
}

// orNil returns the aggregate only when at least one step failed.
func (p *PartialFailure) orNil() error {
	if len(p.Steps) == 0 {
		return nil
	}
	return p
}
