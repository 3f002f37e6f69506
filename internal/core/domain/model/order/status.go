package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a fulfillment order.
// It implements a state machine with a fixed transition table so orders
// always follow the business workflow.
//
// State transitions:
//
//	Draft ──> Confirmed ──> VendorAssigned ──> Accepted ──> Dispatched ──> Delivered ──> Completed
//	                             │ (reassignment allowed)
//	                             └──> VendorAssigned
//
// Cancelled and Failed are reachable from every non-terminal state.
// Completed, Cancelled, and Failed are terminal: no outgoing transitions.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Draft is the initial status of an order created from an accepted intent.
	Draft

	// Confirmed indicates the order passed validation, stock reservation,
	// and the credit check, and is awaiting vendor assignment.
	Confirmed

	// VendorAssigned indicates a vendor has been selected and an acceptance
	// window is open. Reassignment keeps the order in this status.
	VendorAssigned

	// Accepted indicates the assigned vendor accepted within its window.
	Accepted

	// Dispatched indicates the vendor handed the goods to transport.
	Dispatched

	// Delivered indicates the goods reached the retailer.
	Delivered

	// Completed is the terminal success state.
	Completed

	// Cancelled is a terminal state reachable from any non-terminal status.
	Cancelled

	// Failed is a terminal state for unrecoverable orders, e.g. acceptance
	// timeout exhaustion.
	Failed
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Draft:          "Draft",
		Confirmed:      "Confirmed",
		VendorAssigned: "VendorAssigned",
		Accepted:       "Accepted",
		Dispatched:     "Dispatched",
		Delivered:      "Delivered",
		Completed:      "Completed",
		Cancelled:      "Cancelled",
		Failed:         "Failed",
	}
}

// forwardTransitions is the allowed-transition table for the happy path.
// Cancellation and failure edges are handled separately because they apply
// to every non-terminal status.
func forwardTransitions() map[Status][]Status {
	return map[Status][]Status{
		Draft:          {Confirmed},
		Confirmed:      {VendorAssigned},
		VendorAssigned: {VendorAssigned, Accepted}, // self-edge = reassignment
		Accepted:       {Dispatched},
		Dispatched:     {Delivered},
		Delivered:      {Completed},
	}
}

// Validate checks that the Status value is one of the defined statuses.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status, or "Unknown"
// for invalid values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Failed
}

// CanTransitionTo reports whether the transition s -> target is in the
// allowed table. Cancelled and Failed are reachable from any non-terminal
// status; everything else must follow the forward table.
func (s Status) CanTransitionTo(target Status) bool {
	if s.Validate() != nil || target.Validate() != nil {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if target == Cancelled || target == Failed {
		return true
	}
	for _, next := range forwardTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status if the edge s -> target is allowed,
// or an error wrapping ErrInvalidTransition otherwise.
func (s Status) TransitionTo(target Status) (Status, error) {
	if !s.CanTransitionTo(target) {
		return Unknown, NewInvalidTransitionError(s, target)
	}
	return target, nil
}

// RequiresVendor reports whether an order in this status must have a vendor
// assigned. Draft and Confirmed orders must not; every status from
// VendorAssigned onward on the happy path must. Terminal statuses may have
// either, since cancellation and failure can happen before assignment.
func (s Status) RequiresVendor() bool {
	switch s {
	case VendorAssigned, Accepted, Dispatched, Delivered, Completed:
		return true
	default:
		return false
	}
}

// ForbidsVendor reports whether an order in this status must not have a
// vendor assigned yet.
func (s Status) ForbidsVendor() bool {
	return s == Draft || s == Confirmed
}
