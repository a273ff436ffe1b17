package order

import (
	"labflow/internal/pkg/errs"
)

// ItemStatus represents the lifecycle state of one order item.
// It implements a state machine with defined transitions to ensure every exam
// follows the laboratory workflow.
//
// State transitions:
//
//	AwaitingCollection ──> Collected ──> InAnalysis ──> ResultEntered ──> Signed ──> Delivered
//	        │                  │              │               │
//	        └──────────────────┴──────────────┴───────────────┴──> Cancelled
//
// Collected may advance straight to ResultEntered when a result is entered
// and released in one step. Cancellation is allowed from any state up to and
// including ResultEntered; a signed result requires an amendment workflow,
// not cancellation.
//
// ItemStatus is a value object that validates state transitions and provides
// string representations for persistence and display.
type ItemStatus int

const (
	// UnknownItemStatus represents an invalid or undefined status.
	// This value (0) helps catch uninitialized ItemStatus values.
	UnknownItemStatus ItemStatus = iota

	// AwaitingCollection is the initial status after reception: the item's
	// biological material has not been collected yet.
	AwaitingCollection

	// Collected indicates the material was collected and the item is waiting
	// for analysis.
	Collected

	// InAnalysis indicates a result draft exists but has not been released.
	InAnalysis

	// ResultEntered indicates the result was entered and released, pending
	// professional signature. Field values may still be corrected.
	ResultEntered

	// Signed indicates a credentialed professional signed the result.
	// The result is immutable from this point on.
	Signed

	// Delivered indicates the signed result was handed to an authorized
	// recipient. This is the final state.
	Delivered

	// ItemCancelled indicates the item was cancelled before signature.
	ItemCancelled
)

func getItemStatusStrings() map[ItemStatus]string {
	return map[ItemStatus]string{
		UnknownItemStatus:  "Unknown",
		AwaitingCollection: "AwaitingCollection",
		Collected:          "Collected",
		InAnalysis:         "InAnalysis",
		ResultEntered:      "ResultEntered",
		Signed:             "Signed",
		Delivered:          "Delivered",
		ItemCancelled:      "Cancelled",
	}
}

// itemTransitions enumerates the allowed edges of the state machine.
// Idempotent retries (re-collecting a collected item, re-signing a signed
// result) are handled by the entity methods, not encoded as self-edges here.
func itemTransitions() map[ItemStatus][]ItemStatus {
	return map[ItemStatus][]ItemStatus{
		AwaitingCollection: {Collected, ItemCancelled},
		Collected:          {InAnalysis, ResultEntered, ItemCancelled},
		InAnalysis:         {ResultEntered, ItemCancelled},
		ResultEntered:      {Signed, ItemCancelled},
		Signed:             {Delivered},
		Delivered:          {},
		ItemCancelled:      {},
	}
}

// Validate checks if the ItemStatus value is valid.
// UnknownItemStatus (0) and out-of-range values are invalid. Used to reject
// statuses coming from external sources such as the database.
func (s ItemStatus) Validate() error {
	if s == UnknownItemStatus {
		return errs.NewValueIsInvalidError("item status")
	}
	if _, ok := getItemStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("item status")
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any value, including invalid ones.
func (s ItemStatus) String() string {
	if str, ok := getItemStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// CanTransitionTo reports whether the state machine allows moving from s to
// target.
func (s ItemStatus) CanTransitionTo(target ItemStatus) bool {
	for _, next := range itemTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target when the edge s -> target exists, or an
// InvalidTransitionError describing the rejected move.
func (s ItemStatus) TransitionTo(target ItemStatus) (ItemStatus, error) {
	if !s.CanTransitionTo(target) {
		return UnknownItemStatus, errs.NewInvalidTransitionError("order item", s.String(), target.String())
	}
	return target, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s ItemStatus) IsTerminal() bool {
	return s == Delivered || s == ItemCancelled
}

// Status represents the order-level status derived from the statuses of the
// order's items. It is a pure read-side projection: recomputed on every read
// and never stored authoritatively.
type Status int

const (
	// UnknownStatus represents an invalid or undefined order status.
	UnknownStatus Status = iota

	// StatusAwaitingCollection: no item has been collected yet.
	StatusAwaitingCollection

	// StatusInCollection: at least one item was collected, none analyzed yet.
	StatusInCollection

	// StatusInAnalysis: at least one item reached analysis or beyond.
	StatusInAnalysis

	// StatusFinalized: every non-cancelled item is signed.
	StatusFinalized

	// StatusDelivered: every non-cancelled item was delivered.
	StatusDelivered

	// StatusCancelled: every item was cancelled.
	StatusCancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus:            "Unknown",
		StatusAwaitingCollection: "AwaitingCollection",
		StatusInCollection:       "InCollection",
		StatusInAnalysis:         "InAnalysis",
		StatusFinalized:          "Finalized",
		StatusDelivered:          "Delivered",
		StatusCancelled:          "Cancelled",
	}
}

// String returns the human-readable name of the derived order status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// deriveStatus computes the order-level status from item statuses.
func deriveStatus(items []*Item) Status {
	statuses := make([]ItemStatus, len(items))
	for i, item := range items {
		statuses[i] = item.Status()
	}
	return DeriveStatus(statuses)
}

// DeriveStatus computes the order-level status from a set of item statuses.
// Precedence: all cancelled, then all delivered, then all signed, then any in
// analysis or beyond, then any collected, otherwise awaiting collection.
// Exported for read-side projections that work from raw status values.
func DeriveStatus(statuses []ItemStatus) Status {
	if len(statuses) == 0 {
		return UnknownStatus
	}

	active := 0
	delivered := 0
	signedOrLater := 0
	anyAnalysis := false
	anyCollected := false

	for _, status := range statuses {
		if status == ItemCancelled {
			continue
		}
		active++

		switch {
		case status == Delivered:
			delivered++
			signedOrLater++
		case status == Signed:
			signedOrLater++
		case status >= InAnalysis:
			anyAnalysis = true
		case status == Collected:
			anyCollected = true
		}
	}

	switch {
	case active == 0:
		return StatusCancelled
	case delivered == active:
		return StatusDelivered
	case signedOrLater == active:
		return StatusFinalized
	case anyAnalysis || signedOrLater > 0:
		return StatusInAnalysis
	case anyCollected:
		return StatusInCollection
	default:
		return StatusAwaitingCollection
	}
}
