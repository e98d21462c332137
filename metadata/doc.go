// Package metadata provides typed point payloads and equality filters.
//
// # Payload Values
//
// Payload values are scalars:
//
//   - String: metadata.String("Berlin")
//   - Int: metadata.Int(2024)
//   - Float: metadata.Float(3.14)
//   - Bool: metadata.Bool(true)
//   - Null: metadata.Null()
//
// Example:
//
//	doc := metadata.Document{
//	    "city":       metadata.String("Berlin"),
//	    "population": metadata.Int(3_645_000),
//	}
//
// # Filters
//
// A Filter is a conjunction of equality conditions:
//
//	f := metadata.NewFilter(
//	    metadata.Eq("city", "London"),
//	    metadata.Eq("capital", true),
//	)
//
// Numbers compare by value regardless of int/float kind. Any other kind
// mismatch is simply a non-match.
//
// # Index
//
// Index keeps a Roaring Bitmap posting list per (field, value) so filtered
// searches only score points that can match.
package metadata
