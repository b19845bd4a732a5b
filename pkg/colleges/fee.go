package colleges

import "strconv"

// Fee is an average fee in the source currency. Zero is a valid fee;
// a missing fee is represented by the absent value, never by zero.
type Fee struct {
	amount  float64
	present bool
}

// NoFee is the absent fee marker.
var NoFee = Fee{}

// NewFee returns a present fee. Callers are expected to pass a
// non-negative amount; the normalizer never produces negative fees.
func NewFee(amount float64) Fee {
	return Fee{amount: amount, present: true}
}

// Value returns the amount and whether a fee is present.
func (f Fee) Value() (float64, bool) {
	return f.amount, f.present
}

// IsAbsent reports whether the fee is missing.
func (f Fee) IsAbsent() bool {
	return !f.present
}

// String renders the fee for tabular output: empty when absent.
func (f Fee) String() string {
	if !f.present {
		return ""
	}
	return strconv.FormatFloat(f.amount, 'f', -1, 64)
}

// MarshalYAML renders an absent fee as null.
func (f Fee) MarshalYAML() (any, error) {
	if !f.present {
		return nil, nil
	}
	return f.amount, nil
}

// MarshalJSON renders an absent fee as null.
func (f Fee) MarshalJSON() ([]byte, error) {
	if !f.present {
		return []byte("null"), nil
	}
	return []byte(f.String()), nil
}
