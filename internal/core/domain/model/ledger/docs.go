// Package ledger contains the credit ledger model: append-only,
// per-retailer entries whose previous/running balances form a verifiable
// chain. The ledger is the financial source of truth; corrections are
// offsetting entries, never edits.
package ledger
