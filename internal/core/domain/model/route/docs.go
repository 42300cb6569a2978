// Package route provides the ScheduledRoute aggregate: an ordered,
// volunteer-assignable sequence of delivery requests sharing one vehicle and
// one time window.
//
// The package includes:
//   - ScheduledRoute: the aggregate root with its operating window, start
//     date, volunteer assignment and ordered members
//   - Status: the state machine from assembly (Pending) through volunteer
//     claim (Accepted), execution (Processing) and completion (Finished),
//     with the CanceledByVolunteer/Late exception edges
//   - Member: the join record per delivery request, carrying the 1-based stop
//     order and the solver-reported time/distance to the next stop
//
// Key business rules:
//   - routes are created exclusively by the route assembler, never empty
//   - a route cannot start before every member's earliest window has opened
//   - canceling before the window's end spawns a retry clone with the same
//     ordered members; after the end the route goes Late and members expire
//   - the lateness sweep is idempotent: an already-Late route is untouched
package route
