package services

import (
	"fmt"
	"sort"
	"time"

	"tutam/internal/core/domain/model/request"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/pkg/errs"
)

// DemandGroup is a set of pending requests that share a workable time window.
// Window is the group's representative interval: it starts as the first
// member's first-available window and shrinks to the intersection every time a
// member is folded in, so every member can be served inside it.
type DemandGroup struct {
	Window  schedule.Interval
	Members []*request.DeliveryRequest
}

// TotalVolumePercent sums the members' loads.
func (g DemandGroup) TotalVolumePercent() float64 {
	var total float64
	for _, m := range g.Members {
		total += m.TotalVolumePercent()
	}
	return total
}

// GroupingResult is the outcome of one grouping pass. Expired requests were
// out of date and have been transitioned; the caller persists them and queues
// the compensating notification. They never reach batching.
type GroupingResult struct {
	Groups  []DemandGroup
	Expired []*request.DeliveryRequest
}

// DemandGrouper partitions the pending backlog of one branch and direction
// into demand groups sharing an overlapping time window.
//
// The fold is greedy and order-dependent on purpose: a fixed backlog ordering
// produces a fixed grouping, which keeps repeated passes over unchanged demand
// stable.
type DemandGrouper struct {
	minOverlap time.Duration
}

// NewDemandGrouper creates a grouper with the minimum overlap duration two
// windows must share to be considered compatible. The comparison is inclusive
// at the threshold.
func NewDemandGrouper(minOverlap time.Duration) (DemandGrouper, error) {
	if minOverlap <= 0 {
		return DemandGrouper{}, errs.NewValueIsInvalidErrorWithCause(
			"minOverlap", fmt.Errorf("%s is not greater than 0", minOverlap))
	}
	return DemandGrouper{minOverlap: minOverlap}, nil
}

// Group partitions the backlog:
//
//  1. requests without any future-valid window are expired on the spot and
//     reported in the result, never batched
//  2. requests already scheduled at their first-available window are skipped
//  3. the rest are sorted ascending by first-available window duration, then
//     greedily folded into the first group whose representative window still
//     overlaps theirs by at least the threshold, shrinking the representative
//     to the intersection; otherwise a new group opens
func (g DemandGrouper) Group(
	backlog []*request.DeliveryRequest,
	now time.Time,
) (GroupingResult, error) {
	var result GroupingResult

	candidates := make([]*request.DeliveryRequest, 0, len(backlog))
	for _, r := range backlog {
		if err := r.Validate(); err != nil {
			return GroupingResult{}, err
		}

		if !r.HasFutureWindow(now) {
			if err := r.Expire(); err != nil {
				return GroupingResult{}, err
			}
			result.Expired = append(result.Expired, r)
			continue
		}

		if r.IsAlreadyScheduled(now) {
			continue
		}

		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		wi, _ := candidates[i].FirstAvailableWindow(now)
		wj, _ := candidates[j].FirstAvailableWindow(now)
		return wi.Duration() < wj.Duration()
	})

	for _, r := range candidates {
		window, _ := r.FirstAvailableWindow(now)
		result.Groups = g.fold(result.Groups, r, window.Interval())
	}

	return result, nil
}

func (g DemandGrouper) fold(
	groups []DemandGroup,
	r *request.DeliveryRequest,
	window schedule.Interval,
) []DemandGroup {
	for i := range groups {
		overlap, ok := groups[i].Window.Intersect(window)
		if !ok || overlap.Duration() < g.minOverlap {
			continue
		}

		groups[i].Window = overlap
		groups[i].Members = append(groups[i].Members, r)
		return groups
	}

	return append(groups, DemandGroup{
		Window:  window,
		Members: []*request.DeliveryRequest{r},
	})
}
