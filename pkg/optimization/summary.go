// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the outcome of a single optimized decision variable.
type Summary struct {
	Field    string  `json:"field"`
	Original float64 `json:"original"`
	Value    float64 `json:"value"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	AtBound  bool    `json:"atBound"`
}
