package reconcile

import (
	"strings"

	"github.com/chijunzheng/spreadsheet-payroll-automation/internal/timeparse"
)

// Candidates is the ordered set of acceptable expected values for one field
// comparison. Order is preference order (first value added is reported
// first), duplicates and nils are dropped on insert. The comparison contract
// depends on this ordering, so it is a first-class type rather than an
// inline slice.
type Candidates struct {
	values []int
}

// NewCandidates builds a set from optional values, in order.
func NewCandidates(values ...*int) Candidates {
	var c Candidates
	for _, v := range values {
		c.Add(v)
	}
	return c
}

// Add appends a value unless it is nil or already present.
func (c *Candidates) Add(value *int) {
	if value == nil {
		return
	}
	for _, existing := range c.values {
		if existing == *value {
			return
		}
	}
	c.values = append(c.values, *value)
}

// Empty reports whether no acceptable value exists.
func (c Candidates) Empty() bool { return len(c.values) == 0 }

// Matches reports whether actual falls within tolerance of any candidate.
func (c Candidates) Matches(actual, tolerance int) bool {
	for _, v := range c.values {
		diff := v - actual
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			return true
		}
	}
	return false
}

// String renders the candidates as pipe-separated clock times, in preference
// order, the way they appear in the discrepancy report.
func (c Candidates) String() string {
	parts := make([]string, len(c.values))
	for i, v := range c.values {
		v := v
		parts[i] = timeparse.FormatMinutes(&v)
	}
	return strings.Join(parts, " | ")
}
