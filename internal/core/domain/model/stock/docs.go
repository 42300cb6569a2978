// Package stock provides the inventory entities the reconciler operates on:
// lots, append-only audit entries, and campaign targets.
//
// Key business rules:
//   - a lot's quantity is never negative
//   - lots are consumed strictly FIFO by ascending expiration date
//   - every movement writes one audit entry; reversals compensate fulfillment
//     fragments and flag the original as superseded rather than deleting it
//   - untargeted receipts advance the least-fulfilled matching open campaign
//     target
package stock
