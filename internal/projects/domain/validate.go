package domain

import (
	"fmt"
	"strings"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// Validate checks the root-row fields a caller can set. Errors wrap
// ErrInvalidProject.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProject)
	}
	if p.EstimatedHours.IsNegative() {
		return fmt.Errorf("%w: estimated hours must not be negative", ErrInvalidProject)
	}
	if p.ActualHours.IsNegative() {
		return fmt.Errorf("%w: actual hours must not be negative", ErrInvalidProject)
	}
	if d, ok := p.Difficulty.Get(); ok && (d < MinDifficulty || d > MaxDifficulty) {
		return fmt.Errorf("%w: difficulty must be between %d and %d, got %d",
			ErrInvalidProject, MinDifficulty, MaxDifficulty, d)
	}
	return nil
}
