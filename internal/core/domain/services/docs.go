// Package services contains the domain services of the scheduling engine:
// stateless algorithms that span several aggregates and therefore cannot live
// on any single one of them.
//
// The pipeline runs DemandGrouper → CapacityBatcher → (solver) → RouteAssembler
// over one branch and direction per pass; StockReconciler is invoked from
// lifecycle transitions (receipt, fulfillment, cancellation reversal).
package services
