package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

var (
	// ErrNoVendorAvailable is returned when ranking leaves no eligible
	// vendor for the order.
	ErrNoVendorAvailable = errors.New("no vendor available for order")

	// ErrRoutingExhausted is returned when the order has burned through
	// the configured maximum number of routing attempts.
	ErrRoutingExhausted = errors.New("routing attempts exhausted")
)

// Router runs one routing attempt for an order: scores the candidates,
// assigns the winner, and opens the acceptance window. Shared by the
// routing command, the rejection re-route, the timeout scanner, and the
// watchdog.
type Router struct {
	scorer services.VendorScorer
	ranker services.VendorRanker
	cfg    ports.RoutingConfig
}

func NewRouter(scorer services.VendorScorer, ranker services.VendorRanker, cfg ports.RoutingConfig) Router {
	return Router{scorer: scorer, ranker: ranker, cfg: cfg}
}

// routeOutcome carries what the caller needs for post-commit side effects.
type routeOutcome struct {
	window   *assignment.Window
	vendorID kernel.UUID
}

// route assigns the order to the best eligible vendor and opens its
// acceptance window. Previously tried vendors are excluded; the attempt
// number continues from the order's window history. Returns
// ErrRoutingExhausted when the attempt budget is spent and
// ErrNoVendorAvailable when ranking comes up empty.
func (rt Router) route(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	rtl *retailer.Retailer,
	actor string,
	now time.Time,
) (*routeOutcome, error) {
	windowRepo := uow.WindowRepository()
	vendorRepo := uow.VendorRepository()
	orderRepo := uow.OrderRepository()

	history, err := windowRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	attempt := len(history) + 1
	if attempt > rt.cfg.MaxAttempts {
		return nil, ErrRoutingExhausted
	}
	excluded := make(map[kernel.UUID]struct{}, len(history))
	for _, w := range history {
		excluded[w.VendorID()] = struct{}{}
	}

	candidates, err := rt.scoreCandidates(ctx, uow, o, rtl, now)
	if err != nil {
		return nil, err
	}

	best, err := rt.ranker.Best(candidates, excluded)
	if errors.Is(err, services.ErrVendorNotFound) {
		return nil, ErrNoVendorAvailable
	}
	if err != nil {
		return nil, err
	}

	if err = o.AssignVendor(best.Vendor.ID(), actor, now); err != nil {
		return nil, err
	}
	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	best.Score.RecordAssigned()
	if err = vendorRepo.UpdateScore(ctx, best.Score); err != nil {
		return nil, err
	}

	window, err := assignment.NewWindow(kernel.NewUUID(), o.ID(), best.Vendor.ID(), attempt, now, rt.cfg.ResponseTimeout)
	if err != nil {
		return nil, err
	}
	if err = windowRepo.Add(ctx, window); err != nil {
		return nil, err
	}

	return &routeOutcome{window: window, vendorID: best.Vendor.ID()}, nil
}

// rescore refreshes the reliability-derived part of a score after a
// lifecycle outcome was recorded on it, so the persisted row stays current
// between routing passes.
func (rt Router) rescore(score *vendor.Score, now time.Time) error {
	return rt.scorer.Rescore(score, now)
}

// scoreCandidates recomputes component scores for every routable vendor
// that can fulfill the order. Vendors missing stock for any item are
// silently dropped from the candidate set.
func (rt Router) scoreCandidates(
	ctx context.Context,
	uow RoutingUoW,
	o *order.Order,
	rtl *retailer.Retailer,
	now time.Time,
) ([]services.Candidate, error) {
	vendorRepo := uow.VendorRepository()
	orderRepo := uow.OrderRepository()

	vendors, err := vendorRepo.GetAllRoutable(ctx)
	if err != nil {
		return nil, err
	}

	type quoted struct {
		candidate services.Candidate
		quote     kernel.Money
	}
	pool := make([]quoted, 0, len(vendors))
	var quoteSum int64
	for _, v := range vendors {
		quote, inStock, err := vendorRepo.Quote(ctx, v.ID(), o.Items())
		if err != nil {
			return nil, err
		}
		if !inStock {
			continue
		}
		score, err := vendorRepo.GetScore(ctx, v.ID())
		if err != nil {
			return nil, err
		}
		pool = append(pool, quoted{candidate: services.Candidate{Vendor: v, Score: score}, quote: quote})
		quoteSum += quote.Cents()
	}

	// Price competitiveness is measured against the candidates' average
	// quote for this order.
	averageQuote := 0.0
	if len(pool) > 0 {
		averageQuote = float64(quoteSum) / float64(len(pool))
	}

	candidates := make([]services.Candidate, 0, len(pool))
	for _, q := range pool {
		open, err := orderRepo.CountActiveByVendor(ctx, q.candidate.Vendor.ID())
		if err != nil {
			return nil, err
		}

		priceRatio := 0.0
		if averageQuote > 0 {
			priceRatio = float64(q.quote.Cents()) / averageQuote
		}

		_, err = rt.scorer.Score(services.ScoringInput{
			Vendor:     q.candidate.Vendor,
			Score:      q.candidate.Score,
			OpenOrders: open,
			HourOfDay:  now.Hour(),
			SameCity:   q.candidate.Vendor.City() == rtl.City(),
			SameState:  q.candidate.Vendor.State() == rtl.State(),
			PriceRatio: priceRatio,
		}, now)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, q.candidate)
	}
	return candidates, nil
}
