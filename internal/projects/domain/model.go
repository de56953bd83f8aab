package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/diyprojects/projects/internal/optional"
)

// HoursScale is the number of fractional digits kept for hour values.
const HoursScale = 2

// Project is the root of the project aggregate. Values returned by the
// repository are detached copies; mutating them never touches storage.
type Project struct {
	ID             int                       `db:"project_id"`
	Name           string                    `db:"project_name"`
	EstimatedHours decimal.Decimal           `db:"estimated_hours"`
	ActualHours    decimal.Decimal           `db:"actual_hours"`
	Difficulty     optional.Optional[int]    `db:"difficulty"`
	Notes          optional.Optional[string] `db:"notes"`

	Materials  []Material `db:"-"`
	Steps      []Step     `db:"-"`
	Categories []Category `db:"-"`
}

type Material struct {
	ID          int                                `db:"material_id"`
	ProjectID   int                                `db:"project_id"`
	Name        string                             `db:"material_name"`
	NumRequired optional.Optional[int]             `db:"num_required"`
	Cost        optional.Optional[decimal.Decimal] `db:"cost"`
}

type Step struct {
	ID        int    `db:"step_id"`
	ProjectID int    `db:"project_id"`
	Text      string `db:"step_text"`
	Order     int    `db:"step_order"`
}

type Category struct {
	ID   int    `db:"category_id"`
	Name string `db:"category_name"`
}

// NormalizeHours rounds d to HoursScale fractional digits.
func NormalizeHours(d decimal.Decimal) decimal.Decimal {
	return d.Round(HoursScale)
}

// ParseHours parses a decimal string and normalizes it.
func ParseHours(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q is not a valid decimal number: %w", s, err)
	}
	return NormalizeHours(d), nil
}

// Normalized returns a copy of p with both hour fields normalized.
func (p Project) Normalized() Project {
	p.EstimatedHours = NormalizeHours(p.EstimatedHours)
	p.ActualHours = NormalizeHours(p.ActualHours)
	return p
}

func (p Project) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ID=%d, name=%s, estimated hours=%s, actual hours=%s, difficulty=%s, notes=%s",
		p.ID, p.Name,
		p.EstimatedHours.StringFixed(HoursScale), p.ActualHours.StringFixed(HoursScale),
		p.Difficulty, p.Notes)

	b.WriteString("\n  Materials:")
	for _, m := range p.Materials {
		fmt.Fprintf(&b, "\n    %d: %s (required=%s, cost=%s)", m.ID, m.Name, m.NumRequired, m.Cost)
	}
	b.WriteString("\n  Steps:")
	for _, s := range p.Steps {
		fmt.Fprintf(&b, "\n    %d. %s", s.Order, s.Text)
	}
	b.WriteString("\n  Categories:")
	for _, c := range p.Categories {
		fmt.Fprintf(&b, "\n    %d: %s", c.ID, c.Name)
	}
	return b.String()
}
