package assignment

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// WindowStatus is the lifecycle state of an acceptance window.
type WindowStatus string

const (
	// StatusPending means the vendor has not yet responded and the
	// deadline has not been claimed.
	StatusPending WindowStatus = "PENDING"
	// StatusResponded means the vendor accepted or rejected in time.
	StatusResponded WindowStatus = "RESPONDED"
	// StatusTimedOut means the timeout scanner claimed the window after
	// the deadline passed with no response.
	StatusTimedOut WindowStatus = "TIMED_OUT"
	// StatusReassigned marks a timed-out window whose order has already
	// been routed to the next vendor.
	StatusReassigned WindowStatus = "REASSIGNED"
)

// Validate checks that the status is one of the defined values.
func (s WindowStatus) Validate() error {
	switch s {
	case StatusPending, StatusResponded, StatusTimedOut, StatusReassigned:
		return nil
	default:
		return errs.NewValueIsInvalidError("windowStatus")
	}
}

// String implements fmt.Stringer.
func (s WindowStatus) String() string { return string(s) }

var (
	// ErrWindowIsNotConstructed is returned when a Window instance was not
	// created through NewWindow or RestoreWindow.
	ErrWindowIsNotConstructed = errors.New("Window must be created via NewWindow or RestoreWindow")

	// ErrWindowAlreadyClosed is returned for a response or timeout against
	// a window that already left the PENDING state.
	ErrWindowAlreadyClosed = errors.New("acceptance window is already closed")

	// ErrWindowExpired is returned when a vendor responds after the
	// deadline. Late responses never reopen a window.
	ErrWindowExpired = errors.New("acceptance window has expired")
)

// Window is a single vendor's timed chance to accept an order. Exactly one
// window per order is PENDING at any time; each reassignment opens a new
// window with an incremented attempt number.
type Window struct {
	id            kernel.UUID
	orderID       kernel.UUID
	vendorID      kernel.UUID
	attemptNumber int
	assignedAt    time.Time
	deadline      time.Time
	status        WindowStatus
	respondedAt   *time.Time
	accepted      bool
	nextVendorID  *kernel.UUID

	isConstructed bool
}

// NewWindow opens a PENDING acceptance window for the vendor the order was
// just routed to. attemptNumber starts at 1 for the first routing.
func NewWindow(id, orderID, vendorID kernel.UUID, attemptNumber int, assignedAt time.Time, timeout time.Duration) (*Window, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), vendorID.Validate()); err != nil {
		return nil, err
	}
	if attemptNumber < 1 {
		return nil, errs.NewValueIsOutOfRangeError("attemptNumber", attemptNumber, 1, 1<<31-1)
	}
	if timeout <= 0 {
		return nil, errs.NewValueIsRequiredError("timeout")
	}
	return &Window{
		id:            id,
		orderID:       orderID,
		vendorID:      vendorID,
		attemptNumber: attemptNumber,
		assignedAt:    assignedAt,
		deadline:      assignedAt.Add(timeout),
		status:        StatusPending,
		isConstructed: true,
	}, nil
}

// RestoreWindow reconstructs a window from persistence.
func RestoreWindow(
	id, orderID, vendorID kernel.UUID,
	attemptNumber int,
	assignedAt, deadline time.Time,
	status WindowStatus,
	respondedAt *time.Time,
	accepted bool,
	nextVendorID *kernel.UUID,
) (*Window, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), vendorID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if attemptNumber < 1 {
		return nil, errs.NewValueIsOutOfRangeError("attemptNumber", attemptNumber, 1, 1<<31-1)
	}
	return &Window{
		id:            id,
		orderID:       orderID,
		vendorID:      vendorID,
		attemptNumber: attemptNumber,
		assignedAt:    assignedAt,
		deadline:      deadline,
		status:        status,
		respondedAt:   respondedAt,
		accepted:      accepted,
		nextVendorID:  nextVendorID,
		isConstructed: true,
	}, nil
}

// Validate ensures the Window was created through a constructor.
func (w *Window) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWindowIsNotConstructed
	}
	return nil
}

// ID returns the window identifier.
func (w *Window) ID() kernel.UUID { return w.id }

// OrderID returns the order awaiting a response.
func (w *Window) OrderID() kernel.UUID { return w.orderID }

// VendorID returns the vendor the window was opened for.
func (w *Window) VendorID() kernel.UUID { return w.vendorID }

// AttemptNumber returns which routing attempt this window represents,
// starting at 1.
func (w *Window) AttemptNumber() int { return w.attemptNumber }

// AssignedAt returns when the order was routed to the vendor.
func (w *Window) AssignedAt() time.Time { return w.assignedAt }

// Deadline returns the instant after which the window times out.
func (w *Window) Deadline() time.Time { return w.deadline }

// Status returns the window's lifecycle state.
func (w *Window) Status() WindowStatus { return w.status }

// RespondedAt returns when the vendor responded, or nil.
func (w *Window) RespondedAt() *time.Time { return w.respondedAt }

// IsAccepted reports whether a RESPONDED window was an acceptance.
func (w *Window) IsAccepted() bool { return w.status == StatusResponded && w.accepted }

// NextVendorID returns the vendor a REASSIGNED window handed over to, or nil.
func (w *Window) NextVendorID() *kernel.UUID { return w.nextVendorID }

// IsExpired reports whether now is past the deadline.
func (w *Window) IsExpired(now time.Time) bool {
	return now.After(w.deadline)
}

// Respond records the vendor's accept/reject decision. The window must be
// PENDING and within the deadline.
func (w *Window) Respond(accepted bool, now time.Time) error {
	if w.status != StatusPending {
		return ErrWindowAlreadyClosed
	}
	if w.IsExpired(now) {
		return ErrWindowExpired
	}
	w.status = StatusResponded
	w.accepted = accepted
	respondedAt := now
	w.respondedAt = &respondedAt
	return nil
}

// TimeOut closes a PENDING window whose deadline has passed.
func (w *Window) TimeOut(now time.Time) error {
	if w.status != StatusPending {
		return ErrWindowAlreadyClosed
	}
	if !w.IsExpired(now) {
		return errs.NewValueIsInvalidErrorWithCause("deadline",
			errors.New("window has not reached its deadline"))
	}
	w.status = StatusTimedOut
	return nil
}

// MarkReassigned links a timed-out (or rejected) window to the vendor the
// order moved on to.
func (w *Window) MarkReassigned(nextVendorID kernel.UUID) error {
	if w.status != StatusTimedOut && w.status != StatusResponded {
		return errs.NewValueIsInvalidErrorWithCause("status",
			errors.New("only closed windows can be marked reassigned"))
	}
	if err := nextVendorID.Validate(); err != nil {
		return err
	}
	w.status = StatusReassigned
	w.nextVendorID = &nextVendorID
	return nil
}
