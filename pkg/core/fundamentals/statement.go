package fundamentals

import "strings"

// Statement is a tabular financial statement: rows are accounting concepts,
// columns are reporting period end dates (most recent first). Cells may be
// absent; absence of a concept or value is an expected condition, not an
// error.
type Statement struct {
	Periods []string
	cells   map[string]map[string]float64
}

// NewStatement creates an empty statement with the given period columns,
// ordered most recent first.
func NewStatement(periods ...string) *Statement {
	return &Statement{
		Periods: periods,
		cells:   make(map[string]map[string]float64),
	}
}

// NormalizeConcept maps namespace-prefixed concept spellings onto the stored
// key form, so "us-gaap:Assets" and "us-gaap_Assets" are equivalent.
func NormalizeConcept(name string) string {
	return strings.ReplaceAll(name, ":", "_")
}

// Set stores a value for a concept in a period column. The concept name is
// normalized on the way in.
func (s *Statement) Set(concept, period string, value float64) {
	key := NormalizeConcept(concept)
	row, ok := s.cells[key]
	if !ok {
		row = make(map[string]float64)
		s.cells[key] = row
	}
	row[period] = value
}

// Value returns the concept's value from the most recent period column that
// holds one.
func (s *Statement) Value(concept string) (float64, bool) {
	row, ok := s.cells[NormalizeConcept(concept)]
	if !ok {
		return 0, false
	}
	for _, period := range s.Periods {
		if v, present := row[period]; present {
			return v, true
		}
	}
	return 0, false
}

// LookupConcept resolves a semantic accounting quantity out of a statement by
// trying an ordered list of concept-name aliases. Different filers tag the
// same quantity under different GAAP names, so callers pass the canonical
// name first and fallbacks after it. Returns the first match, or false when
// no candidate resolves.
func LookupConcept(stmt *Statement, concepts []string) (float64, bool) {
	if stmt == nil {
		return 0, false
	}
	for _, concept := range concepts {
		if v, ok := stmt.Value(concept); ok {
			return v, true
		}
	}
	return 0, false
}

// lookupOrZero is LookupConcept for balance-sheet items that default to zero
// when a filer omits them.
func lookupOrZero(stmt *Statement, concepts []string) float64 {
	v, ok := LookupConcept(stmt, concepts)
	if !ok {
		return 0
	}
	return v
}
