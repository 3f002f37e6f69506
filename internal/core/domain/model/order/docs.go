// Package order contains the Order aggregate: the fulfillment state machine
// that drives an accepted order intent through vendor assignment,
// acceptance, delivery, and settlement.
//
// The aggregate enforces the allowed-transition table, keeps the
// dueAmount == total - paidAmount invariant, and appends an immutable
// StatusChange for every transition so repositories can persist a complete
// status log atomically with the order row.
package order
