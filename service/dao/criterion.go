package dao

// Criterion narrows a List call to records whose named field carries the
// given value. Interpretation of Field is up to the store owner; unknown
// fields match nothing.
type Criterion struct {
	Field string
	Value string
}

// NewCriterion creates a list criterion.
func NewCriterion(field, value string) *Criterion {
	return &Criterion{Field: field, Value: value}
}
