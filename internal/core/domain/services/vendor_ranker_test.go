package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(t *testing.T, overall, reliability float64, routable bool) services.Candidate {
	t.Helper()
	id := kernel.NewUUID()
	v, err := vendor.RestoreVendor(id, "Vendor", "Austin", "TX", routable, routable, 0, 23)
	require.NoError(t, err)
	s, err := vendor.RestoreScore(id, 50, 50, 50, 50, reliability, overall, 0, 0, 0, 0, 0, time.Now())
	require.NoError(t, err)
	return services.Candidate{Vendor: v, Score: s}
}

func TestVendorRanker_Rank(t *testing.T) {
	ranker := services.NewVendorRanker(30)

	t.Run("orders by overall score descending", func(t *testing.T) {
		low := candidate(t, 40, 50, true)
		high := candidate(t, 90, 50, true)
		mid := candidate(t, 70, 50, true)

		ranked, err := ranker.Rank([]services.Candidate{low, high, mid}, nil)

		require.NoError(t, err)
		require.Len(t, ranked, 3)
		assert.True(t, ranked[0].Vendor.ID().IsEqual(high.Vendor.ID()))
		assert.True(t, ranked[1].Vendor.ID().IsEqual(mid.Vendor.ID()))
		assert.True(t, ranked[2].Vendor.ID().IsEqual(low.Vendor.ID()))
	})

	t.Run("filters unroutable vendors", func(t *testing.T) {
		inactive := candidate(t, 95, 50, false)
		active := candidate(t, 60, 50, true)

		ranked, err := ranker.Rank([]services.Candidate{inactive, active}, nil)

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].Vendor.ID().IsEqual(active.Vendor.ID()))
	})

	t.Run("filters vendors below the reliability floor", func(t *testing.T) {
		unreliable := candidate(t, 95, 10, true)
		reliable := candidate(t, 60, 80, true)

		ranked, err := ranker.Rank([]services.Candidate{unreliable, reliable}, nil)

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].Vendor.ID().IsEqual(reliable.Vendor.ID()))
	})

	t.Run("filters excluded vendors", func(t *testing.T) {
		first := candidate(t, 95, 50, true)
		second := candidate(t, 60, 50, true)
		excluded := map[kernel.UUID]struct{}{first.Vendor.ID(): {}}

		ranked, err := ranker.Rank([]services.Candidate{first, second}, excluded)

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].Vendor.ID().IsEqual(second.Vendor.ID()))
	})

	t.Run("ties break on reliability", func(t *testing.T) {
		steady := candidate(t, 70, 90, true)
		shaky := candidate(t, 70, 40, true)

		ranked, err := ranker.Rank([]services.Candidate{shaky, steady}, nil)

		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.True(t, ranked[0].Vendor.ID().IsEqual(steady.Vendor.ID()))
	})

	t.Run("should reject unconstructed candidates", func(t *testing.T) {
		var bad vendor.Vendor
		good := candidate(t, 70, 50, true)

		_, err := ranker.Rank([]services.Candidate{good, {Vendor: &bad, Score: good.Score}}, nil)

		require.ErrorIs(t, err, vendor.ErrVendorIsNotConstructed)
	})
}

func TestVendorRanker_Best(t *testing.T) {
	ranker := services.NewVendorRanker(30)

	t.Run("returns the top candidate", func(t *testing.T) {
		winner := candidate(t, 90, 80, true)
		loser := candidate(t, 50, 80, true)

		best, err := ranker.Best([]services.Candidate{loser, winner}, nil)

		require.NoError(t, err)
		assert.True(t, best.Vendor.ID().IsEqual(winner.Vendor.ID()))
	})

	t.Run("returns ErrVendorNotFound when nothing is eligible", func(t *testing.T) {
		_, err := ranker.Best(nil, nil)
		require.ErrorIs(t, err, services.ErrVendorNotFound)

		only := candidate(t, 90, 80, true)
		_, err = ranker.Best([]services.Candidate{only}, map[kernel.UUID]struct{}{only.Vendor.ID(): {}})
		require.ErrorIs(t, err, services.ErrVendorNotFound)
	})
}
