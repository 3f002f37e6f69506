// Package assignment contains the acceptance Window entity: a vendor's
// timed chance to accept or reject an order it was routed to.
//
// A window is opened PENDING when the router assigns a vendor, and is
// closed exactly once, either by the vendor's response or by the timeout
// scanner claiming it after the deadline. Closing is modeled so the
// persistence layer can enforce single-claim semantics with a conditional
// update, which keeps concurrent scanners and late responses safe.
package assignment
