package features

// Range is an inclusive numeric interval
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies in the range
func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

// UIBounds are the ranges the input form offers, keyed by request field name
// the server enforces them only in strict mode
var UIBounds = map[string]Range{
	"TenureMonths":   {Min: 1, Max: 72},
	"MonthlyCharges": {Min: 20, Max: 120},
	"SupportCalls":   {Min: 0, Max: 10},
}
