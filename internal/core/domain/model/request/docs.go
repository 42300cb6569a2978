// Package request provides the DeliveryRequest aggregate: one pending pickup
// or delivery of donated goods between a contributor, a warehouse branch and
// an aid recipient.
//
// The package includes:
//   - DeliveryRequest: the aggregate root carrying candidate time windows,
//     line items, parent links and the lifecycle status
//   - Status: the state machine driving the request through scheduling,
//     volunteer progress, cancellation, expiry and problem reports
//   - Direction: the source/destination pairing derived once from the parent
//     links (donor→branch, branch→aid, branch→branch)
//   - LineItem: an item position with quantity and per-item transport capacity
//
// Key business rules:
//   - a request references exactly one parent (donation or aid request)
//   - candidate windows are immutable; the current scheduled time is stamped
//     by the route assembler and always equals one of the candidates
//   - import requests cannot be canceled while physically in transit
//   - export requests require a proof image before they can finish
package request
