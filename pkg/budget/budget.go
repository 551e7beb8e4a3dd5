// Package budget checks size changes against a maximum allowed increase.
package budget

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Sumatoshi-tech/sizediff/pkg/delta"
	"github.com/Sumatoshi-tech/sizediff/pkg/sizereport"
)

// DefaultCategory is the size category checked when none is configured.
const DefaultCategory = "total"

// Budget errors.
var (
	ErrBudgetExceeded  = errors.New("memory budget exceeded")
	ErrUnknownCategory = errors.New("unknown size category")
	ErrNegativeLimit   = errors.New("maximum increase must not be negative")
)

// Limit is the maximum increase in percent allowed for one size category.
// A zero MaxIncrease disables the check.
type Limit struct {
	Category    string
	MaxIncrease float64
}

// Enabled reports whether the limit is active.
func (l Limit) Enabled() bool {
	return l.MaxIncrease > 0
}

// Validate checks that the limit names a known category.
func (l Limit) Validate() error {
	if l.MaxIncrease < 0 {
		return fmt.Errorf("%w: %g", ErrNegativeLimit, l.MaxIncrease)
	}

	_, ok := sizereport.CategoryByLabel(l.category())
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, l.Category)
	}

	return nil
}

func (l Limit) category() string {
	if l.Category == "" {
		return DefaultCategory
	}

	return l.Category
}

// Violation is a row whose increase exceeds the limit.
type Violation struct {
	Filename string
	Category string
	Increase float64
	Limit    float64
}

// String renders the violation for logs and error messages.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s grew %s%% (limit %s%%)",
		v.Filename, v.Category, delta.FormatPercent(v.Increase), delta.FormatPercent(v.Limit))
}

// Check returns every row whose increase in the limit's category is above
// MaxIncrease. +Inf counts as a violation; NaN (zero to zero) does not.
func Check(d *delta.Report, limit Limit) ([]Violation, error) {
	if !limit.Enabled() {
		return nil, nil
	}

	validateErr := limit.Validate()
	if validateErr != nil {
		return nil, validateErr
	}

	cat, _ := sizereport.CategoryByLabel(limit.category())

	var violations []Violation

	for _, row := range d.Rows {
		p, ok := d.RowValue(row, cat.Column)
		if !ok {
			return nil, fmt.Errorf("%w: no %q column for %s", ErrUnknownCategory, cat.Column, row.Filename)
		}

		if math.IsNaN(p) || p <= limit.MaxIncrease {
			continue
		}

		violations = append(violations, Violation{
			Filename: row.Filename,
			Category: cat.Label,
			Increase: p,
			Limit:    limit.MaxIncrease,
		})
	}

	return violations, nil
}

// Error wraps violations in ErrBudgetExceeded, or returns nil if there are none.
func Error(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}

	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		lines = append(lines, v.String())
	}

	return fmt.Errorf("%w: %s", ErrBudgetExceeded, strings.Join(lines, "; "))
}
