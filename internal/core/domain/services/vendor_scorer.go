package services

import (
	"errors"
	"math"
	"time"

	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"
)

// ErrInvalidWeights is returned when scoring weights do not describe a
// valid blend.
var ErrInvalidWeights = errors.New("score weights must be non-negative and sum to 100")

// ScoreWeights is the configured blend for the overall vendor score. The
// five weights are percentages and must sum to 100.
type ScoreWeights struct {
	Availability float64
	Proximity    float64
	Workload     float64
	Price        float64
	Reliability  float64
}

// DefaultScoreWeights is the standard blend used when no override is
// configured.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Availability: 25,
		Proximity:    20,
		Workload:     20,
		Price:        15,
		Reliability:  20,
	}
}

// Validate checks that every weight is non-negative and the blend sums
// to 100.
func (w ScoreWeights) Validate() error {
	for _, v := range []float64{w.Availability, w.Proximity, w.Workload, w.Price, w.Reliability} {
		if v < 0 {
			return ErrInvalidWeights
		}
	}
	sum := w.Availability + w.Proximity + w.Workload + w.Price + w.Reliability
	if math.Abs(sum-100) > 1e-9 {
		return ErrInvalidWeights
	}
	return nil
}

// ScoringInput carries everything the scorer needs to recompute one
// vendor's components for one routing decision.
type ScoringInput struct {
	Vendor *vendor.Vendor
	Score  *vendor.Score

	// OpenOrders is how many active orders the vendor currently holds.
	OpenOrders int
	// HourOfDay is the order's local hour [0,23] for the availability
	// component.
	HourOfDay int
	// SameCity and SameState relate the vendor's location to the
	// retailer's.
	SameCity  bool
	SameState bool
	// PriceRatio is the vendor's quote divided by the average candidate
	// quote, so a quote at the market average has ratio 1. Zero means no
	// quote data.
	PriceRatio float64
}

// VendorScorer is a domain service that recomputes a vendor's component
// scores and blended overall score for a routing decision.
//
// Component scoring:
//   - Availability: full score inside working hours, reduced outside,
//     zero for vendors that are not routable at all
//   - Proximity: same city beats same state beats anything farther
//   - Workload: starts at 100 and drops per open order
//   - Price: quotes at or below the market-average candidate quote score
//     100, more expensive quotes proportionally less
//   - Reliability: acceptance and completion rates minus a cancellation
//     penalty
type VendorScorer struct {
	weights ScoreWeights
}

// NewVendorScorer creates a scorer with the given blend.
func NewVendorScorer(weights ScoreWeights) (VendorScorer, error) {
	if err := weights.Validate(); err != nil {
		return VendorScorer{}, err
	}
	return VendorScorer{weights: weights}, nil
}

// Score recomputes all components for the input, stores them on the Score
// entity, and returns the blended overall value.
func (s VendorScorer) Score(in ScoringInput, now time.Time) (float64, error) {
	if err := in.Vendor.Validate(); err != nil {
		return 0, err
	}
	if err := in.Score.Validate(); err != nil {
		return 0, err
	}
	if in.HourOfDay < 0 || in.HourOfDay > 23 {
		return 0, errs.NewValueIsOutOfRangeError("hourOfDay", in.HourOfDay, 0, 23)
	}

	availability := s.availability(in)
	proximity := s.proximity(in)
	workload := s.workload(in)
	price := s.price(in)
	reliability := Reliability(in.Score)

	overall := (availability*s.weights.Availability +
		proximity*s.weights.Proximity +
		workload*s.weights.Workload +
		price*s.weights.Price +
		reliability*s.weights.Reliability) / 100

	in.Score.SetComponents(availability, proximity, workload, price, reliability, overall, now)
	return in.Score.Overall(), nil
}

// Rescore re-derives the reliability component from the score's lifecycle
// counters and re-blends the overall value, keeping the stored situational
// components. Runs after accept, reject, deliver, and cancel outcomes so
// the persisted row ranks on current history between routing passes.
func (s VendorScorer) Rescore(score *vendor.Score, now time.Time) error {
	if err := score.Validate(); err != nil {
		return err
	}

	reliability := Reliability(score)
	overall := (score.Availability()*s.weights.Availability +
		score.Proximity()*s.weights.Proximity +
		score.Workload()*s.weights.Workload +
		score.Price()*s.weights.Price +
		reliability*s.weights.Reliability) / 100

	score.SetComponents(
		score.Availability(), score.Proximity(), score.Workload(), score.Price(),
		reliability, overall, now)
	return nil
}

func (s VendorScorer) availability(in ScoringInput) float64 {
	if !in.Vendor.IsRoutable() {
		return 0
	}
	if in.Vendor.IsWithinWorkingHours(in.HourOfDay) {
		return 100
	}
	return 40
}

func (s VendorScorer) proximity(in ScoringInput) float64 {
	switch {
	case in.SameCity:
		return 100
	case in.SameState:
		return 60
	default:
		return 20
	}
}

func (s VendorScorer) workload(in ScoringInput) float64 {
	return math.Max(0, 100-10*float64(in.OpenOrders))
}

func (s VendorScorer) price(in ScoringInput) float64 {
	if in.PriceRatio <= 0 {
		return 50
	}
	return math.Min(100, 100/in.PriceRatio)
}

// Reliability derives the reliability component from a vendor's lifecycle
// counters: half acceptance rate, half completion rate, minus half the
// cancellation rate, clamped to [0,100].
func Reliability(score *vendor.Score) float64 {
	r := 0.5*score.AcceptanceRate() + 0.5*score.CompletionRate() - 0.5*score.CancellationRate()
	return math.Min(100, math.Max(0, r))
}
