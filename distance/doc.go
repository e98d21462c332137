// Package distance provides the similarity functions used to rank points.
//
// Every score is oriented so that higher means more similar, which keeps
// ranking uniform across metrics:
//
//   - Cosine: (a·b) / (‖a‖·‖b‖), 0 when either norm is zero
//   - Euclidean: -‖a−b‖
//   - Dot: a·b
//
// # Usage
//
//	score, err := distance.Cosine(a, b)
//	fn, _ := distance.Scorer(distance.MetricDot)
//	score, err = fn(a, b)
package distance
