package services

import (
	"errors"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"
)

// ErrVendorNotFound is returned when no eligible vendor remains after
// filtering. This occurs when no candidates are provided, when every
// candidate is excluded or unroutable, or when all remaining candidates
// fall below the reliability floor.
var ErrVendorNotFound = errors.New("no eligible vendor found")

// Candidate pairs a vendor with its current score for ranking.
type Candidate struct {
	Vendor *vendor.Vendor
	Score  *vendor.Score
}

// VendorRanker is a domain service that orders routing candidates by
// overall score and picks the best eligible vendor.
//
// Eligibility rules:
//   - The vendor must be approved and active
//   - The vendor must not appear in the exclusion set (vendors that
//     already rejected or timed out on the order)
//   - The reliability component must meet the configured floor
//
// Ties on the overall score break on reliability, then on vendor ID so
// ranking is deterministic.
type VendorRanker struct {
	minReliability float64
}

// NewVendorRanker creates a ranker with the given reliability floor.
func NewVendorRanker(minReliability float64) VendorRanker {
	return VendorRanker{minReliability: minReliability}
}

// Rank filters the candidates down to eligible vendors and returns them
// ordered best-first. The excluded set holds vendors already tried for the
// order.
func (r VendorRanker) Rank(candidates []Candidate, excluded map[kernel.UUID]struct{}) ([]Candidate, error) {
	eligible := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Vendor.Validate(); err != nil {
			return nil, err
		}
		if err := c.Score.Validate(); err != nil {
			return nil, err
		}
		if !c.Vendor.IsRoutable() {
			continue
		}
		if _, skip := excluded[c.Vendor.ID()]; skip {
			continue
		}
		if c.Score.Reliability() < r.minReliability {
			continue
		}
		eligible = append(eligible, c)
	}

	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i].Score, eligible[j].Score
		if a.Overall() != b.Overall() {
			return a.Overall() > b.Overall()
		}
		if a.Reliability() != b.Reliability() {
			return a.Reliability() > b.Reliability()
		}
		return eligible[i].Vendor.ID().String() < eligible[j].Vendor.ID().String()
	})
	return eligible, nil
}

// Best returns the top-ranked eligible vendor, or ErrVendorNotFound when
// none remains.
func (r VendorRanker) Best(candidates []Candidate, excluded map[kernel.UUID]struct{}) (Candidate, error) {
	ranked, err := r.Rank(candidates, excluded)
	if err != nil {
		return Candidate{}, err
	}
	if len(ranked) == 0 {
		return Candidate{}, ErrVendorNotFound
	}
	return ranked[0], nil
}
