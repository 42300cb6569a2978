package request

// ParentOutcome is the terminal status a report resolution cascades to the
// parent donation or aid-request aggregate.
type ParentOutcome int

const (
	// ParentOutcomeNone means the siblings have not all settled yet.
	ParentOutcomeNone ParentOutcome = iota

	// ParentOutcomeFinished means every sibling settled and at least one
	// finished.
	ParentOutcomeFinished

	// ParentOutcomeCanceled means every sibling expired or was canceled and
	// none finished.
	ParentOutcomeCanceled
)

// DeriveParentOutcome folds the statuses of every request sharing one parent
// link: Finished when all are Finished/Expired/Canceled with at least one
// Finished, Canceled when all are Expired/Canceled with none Finished, and
// None while any sibling is still in flight.
func DeriveParentOutcome(siblings []*DeliveryRequest) ParentOutcome {
	if len(siblings) == 0 {
		return ParentOutcomeNone
	}

	anyFinished := false
	for _, s := range siblings {
		switch s.Status() {
		case StatusFinished:
			anyFinished = true
		case StatusExpired, StatusCanceled:
		default:
			return ParentOutcomeNone
		}
	}

	if anyFinished {
		return ParentOutcomeFinished
	}
	return ParentOutcomeCanceled
}
