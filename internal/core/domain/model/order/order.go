package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrInvalidTransition is the sentinel wrapped by every rejected
	// transition attempt.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrPaymentExceedsTotal is returned when a recorded payment would push
	// paidAmount above the order total.
	ErrPaymentExceedsTotal = errors.New("payment exceeds order total")
)

// NewInvalidTransitionError describes a rejected edge in the state machine.
func NewInvalidTransitionError(from, to Status) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Item is a single order line: a product, a quantity, and the unit price
// resolved by the upstream pricing service before the intent reached the
// core.
type Item struct {
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money
}

// NewItem creates a validated order line.
func NewItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := unitPrice.ValidateAmount("unitPrice"); err != nil {
		return Item{}, err
	}
	return Item{productID: productID, quantity: quantity, unitPrice: unitPrice}, nil
}

// ProductID returns the ordered product.
func (i Item) ProductID() kernel.UUID { return i.productID }

// Quantity returns the ordered quantity.
func (i Item) Quantity() int { return i.quantity }

// UnitPrice returns the resolved unit price.
func (i Item) UnitPrice() kernel.Money { return i.unitPrice }

// Subtotal returns quantity * unitPrice.
func (i Item) Subtotal() kernel.Money {
	return kernel.NewMoney(i.unitPrice.Cents() * int64(i.quantity))
}

// Order is the aggregate root of the fulfillment state machine. It owns the
// order's lifecycle, enforces the allowed-transition table, and maintains
// the monetary invariant dueAmount == total - paidAmount at every observed
// state.
//
// Invariants:
//   - Must have valid order and retailer identifiers
//   - At least one valid item; total equals the sum of item subtotals
//   - 0 <= paidAmount <= total; dueAmount == total - paidAmount
//   - Vendor is non-nil once the status requires one (VendorAssigned onward)
//   - Status only changes through TransitionTo/AssignVendor, which append an
//     immutable StatusChange to the uncommitted-changes log
//
// The uncommitted changes are persisted as status-log rows by the repository
// in the same transaction as the order row update, then discarded.
type Order struct {
	id         kernel.UUID
	retailerID kernel.UUID
	vendorID   *kernel.UUID
	items      []Item

	total      kernel.Money
	paidAmount kernel.Money
	dueAmount  kernel.Money
	creditUsed kernel.Money

	status    Status
	createdAt time.Time
	updatedAt time.Time

	changes []StatusChange

	isConstructed bool
}

// NewOrder creates an order in Draft status from an accepted order intent.
// The total is computed from the items; creditUsed is the portion of the
// total not covered by the upfront payment.
func NewOrder(
	id kernel.UUID,
	retailerID kernel.UUID,
	items []Item,
	paidAmount kernel.Money,
	now time.Time,
) (*Order, error) {
	if err := errors.Join(id.Validate(), retailerID.Validate()); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}
	if err := paidAmount.ValidateAmount("paidAmount"); err != nil {
		return nil, err
	}

	total := kernel.Zero()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	if paidAmount.IsGreaterThan(total) {
		return nil, ErrPaymentExceedsTotal
	}

	due := total.Sub(paidAmount)
	return &Order{
		id:            id,
		retailerID:    retailerID,
		items:         items,
		total:         total,
		paidAmount:    paidAmount,
		dueAmount:     due,
		creditUsed:    due,
		status:        Draft,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence, validating the
// invariants that must hold for any stored row.
func RestoreOrder(
	id kernel.UUID,
	retailerID kernel.UUID,
	vendorID *kernel.UUID,
	items []Item,
	paidAmount kernel.Money,
	creditUsed kernel.Money,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, retailerID, items, paidAmount, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status.RequiresVendor() && vendorID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("vendorID",
			fmt.Errorf("status %s requires an assigned vendor", status))
	}
	if status.ForbidsVendor() && vendorID != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("vendorID",
			fmt.Errorf("status %s cannot have an assigned vendor", status))
	}
	if vendorID != nil {
		if err = vendorID.Validate(); err != nil {
			return nil, err
		}
	}

	o.vendorID = vendorID
	o.creditUsed = creditUsed
	o.status = status
	o.updatedAt = updatedAt
	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// RetailerID returns the buying retailer.
func (o *Order) RetailerID() kernel.UUID { return o.retailerID }

// VendorID returns the assigned vendor, or nil before assignment.
func (o *Order) VendorID() *kernel.UUID { return o.vendorID }

// Items returns the order lines.
func (o *Order) Items() []Item { return o.items }

// Total returns the order total.
func (o *Order) Total() kernel.Money { return o.total }

// PaidAmount returns the amount paid so far.
func (o *Order) PaidAmount() kernel.Money { return o.paidAmount }

// DueAmount returns total - paidAmount.
func (o *Order) DueAmount() kernel.Money { return o.dueAmount }

// CreditUsed returns the credit consumed when the order was created.
func (o *Order) CreditUsed() kernel.Money { return o.creditUsed }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// CreatedAt returns the creation time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the time of the last mutation. The watchdog compares
// this against per-status staleness thresholds.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// UncommittedChanges returns the status-log rows accumulated since the
// aggregate was loaded. The repository persists and discards them.
func (o *Order) UncommittedChanges() []StatusChange { return o.changes }

// TransitionTo moves the order to target if the edge is allowed, recording
// a status-log entry attributed to actor. The caller is responsible for
// executing the transition's side effects (ledger postings, routing) in the
// same transaction and rolling everything back together on failure.
func (o *Order) TransitionTo(target Status, actor string, now time.Time) error {
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	change, err := NewStatusChange(o.status, next, actor, now)
	if err != nil {
		return err
	}

	o.status = next
	o.updatedAt = now
	o.changes = append(o.changes, change)
	return nil
}

// AssignVendor assigns (or reassigns) a vendor and moves the order to
// VendorAssigned. Reassignment from VendorAssigned is allowed so timed-out
// windows can be routed to the next candidate.
func (o *Order) AssignVendor(vendorID kernel.UUID, actor string, now time.Time) error {
	if err := vendorID.Validate(); err != nil {
		return err
	}
	if err := o.TransitionTo(VendorAssigned, actor, now); err != nil {
		return err
	}
	o.vendorID = &vendorID
	return nil
}

// ApplyPayment records amount against the order, maintaining
// dueAmount == total - paidAmount. Payments above the outstanding due
// amount are rejected.
func (o *Order) ApplyPayment(amount kernel.Money, now time.Time) error {
	if err := amount.ValidateAmount("amount"); err != nil {
		return err
	}
	newPaid := o.paidAmount.Add(amount)
	if newPaid.IsGreaterThan(o.total) {
		return ErrPaymentExceedsTotal
	}
	o.paidAmount = newPaid
	o.dueAmount = o.total.Sub(newPaid)
	o.updatedAt = now
	return nil
}

// Touch bumps updatedAt without changing status. Used by the watchdog's
// RetryWorkflow recovery so a re-nudged order leaves the stuck set.
func (o *Order) Touch(now time.Time) {
	o.updatedAt = now
}
