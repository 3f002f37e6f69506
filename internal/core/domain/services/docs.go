// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the fulfillment system.
// It implements the routing logic that doesn't naturally belong to a
// single aggregate root.
//
// The package includes:
//   - VendorScorer: Recomputes a vendor's component scores and blended
//     overall score for a routing decision
//   - VendorRanker: Filters and orders routing candidates, applying the
//     reliability floor and per-order exclusion set
//
// Domain services coordinate between aggregates, implementing business
// logic that spans multiple bounded contexts following Domain-Driven
// Design principles.
package services
