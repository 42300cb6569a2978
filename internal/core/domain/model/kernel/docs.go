// Package kernel provides shared value objects used across all domain aggregates.
//
// The package includes:
//   - UUID: A validated wrapper over github.com/google/uuid used for entity identity
//   - GeoLocation: A WGS84 coordinate pair with latitude/longitude range validation
//   - Clock: An injectable time source (SystemClock for production, FixedClock for tests)
//
// All value objects follow the same rules: they are immutable, compared by value,
// and only valid when created through their constructor functions. The zero value
// of each type fails Validate, which repositories rely on when reconstructing
// aggregates from persistence.
package kernel
