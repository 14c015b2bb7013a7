// Package features defines the churn customer record and the versioned column schema
// that turns a record into the fixed order numeric vector the model was trained on
package features

import (
	"fmt"
	"strings"
)

// Subscription is the customer plan, matched case sensitively
type Subscription string

// Known plans. Basic is the reference level of the one-hot encoding
const (
	Basic    Subscription = "Basic"
	Standard Subscription = "Standard"
	Premium  Subscription = "Premium"
)

// Subscriptions lists the accepted plans in display order
var Subscriptions = []Subscription{Basic, Standard, Premium}

// Valid reports whether s is one of the known plans
func (s Subscription) Valid() bool {
	switch s {
	case Basic, Standard, Premium:
		return true
	}
	return false
}

// CustomerRecord is one validated request, never mutated after construction
type CustomerRecord struct {
	TenureMonths   int
	Subscription   Subscription
	MonthlyCharges float64
	SupportCalls   int
}

// Vector is a fixed width row in schema column order
type Vector []float64

// Column is a named feature and how to read it off a record
type Column struct {
	Name  string
	value func(CustomerRecord) float64
}

// Schema is the ordered column list shared by the encoder and artifact loading
type Schema struct {
	Name    string
	Version int
	cols    []Column
}

// V1 is the training time layout: tenure, charges, calls, then the two plan indicators
var V1 = Schema{
	Name:    "churn-features",
	Version: 1,
	cols: []Column{
		{Name: "tenureMonths", value: func(r CustomerRecord) float64 { return float64(r.TenureMonths) }},
		{Name: "monthlyCharges", value: func(r CustomerRecord) float64 { return r.MonthlyCharges }},
		{Name: "supportCalls", value: func(r CustomerRecord) float64 { return float64(r.SupportCalls) }},
		{Name: "isPremium", value: func(r CustomerRecord) float64 { return indicator(r.Subscription == Premium) }},
		{Name: "isStandard", value: func(r CustomerRecord) float64 { return indicator(r.Subscription == Standard) }},
	},
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Width is the number of columns
func (s Schema) Width() int { return len(s.cols) }

// Columns returns the column names in order
func (s Schema) Columns() []string {
	out := make([]string, len(s.cols))
	for i, c := range s.cols {
		out[i] = c.Name
	}
	return out
}

// Index returns the position of the named column or -1
func (s Schema) Index(name string) int {
	for i, c := range s.cols {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// String renders name@version
func (s Schema) String() string { return fmt.Sprintf("%s@v%d", s.Name, s.Version) }

// Encode maps r into a freshly allocated vector, callers own the result
func (s Schema) Encode(r CustomerRecord) Vector {
	v := make(Vector, len(s.cols))
	for i, c := range s.cols {
		v[i] = c.value(r)
	}
	return v
}

// Check compares a declared layout against s and describes the first difference
func (s Schema) Check(name string, version int, columns []string) error {
	if name != s.Name || version != s.Version {
		return fmt.Errorf("schema %s@v%d does not match %s", name, version, s)
	}
	if len(columns) != len(s.cols) {
		return fmt.Errorf("schema %s declares %d columns, want %d", s, len(columns), len(s.cols))
	}
	for i, c := range s.cols {
		if columns[i] != c.Name {
			return fmt.Errorf("schema %s column %d is %q, want %q (want order %s)",
				s, i, columns[i], c.Name, strings.Join(s.Columns(), ","))
		}
	}
	return nil
}

// Encode maps r with the current schema
func Encode(r CustomerRecord) Vector { return V1.Encode(r) }
