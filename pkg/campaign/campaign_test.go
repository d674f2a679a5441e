// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package campaign

import (
	"testing"

	"github.com/marketpulse/pulse/pkg/metrics"
	"github.com/stretchr/testify/require"
)

func TestTotalDays(t *testing.T) {
	require := require.New(t)

	require.Equal(15, MBBH2026().TotalDays())
	require.Equal(21, BaleSantai().TotalDays())
}

func TestStatusAt(t *testing.T) {
	require := require.New(t)
	c := MBBH2026()

	require.Equal(StatusUpcoming, c.StatusAt(mustDate("2026-02-01")))
	require.Equal(StatusActive, c.StatusAt(mustDate("2026-02-14")))
	require.Equal(StatusActive, c.StatusAt(mustDate("2026-02-28")))
	require.Equal(StatusCompleted, c.StatusAt(mustDate("2026-03-01")))
}

func TestDaysElapsed(t *testing.T) {
	require := require.New(t)
	c := MBBH2026()

	require.Equal(0, c.DaysElapsed(mustDate("2026-02-01")))
	require.Equal(1, c.DaysElapsed(mustDate("2026-02-14")))
	require.Equal(7, c.DaysElapsed(mustDate("2026-02-20")))
	require.Equal(15, c.DaysElapsed(mustDate("2026-02-28")))
	require.Equal(15, c.DaysElapsed(mustDate("2026-06-01")))
}

func TestSocialTarget(t *testing.T) {
	require.Equal(t, 5000, MBBH2026().SocialTarget())
}

func TestChannelLookup(t *testing.T) {
	require := require.New(t)
	c := MBBH2026()

	search, ok := c.Channel(metrics.ChannelGoogleSearch)
	require.True(ok)
	require.Equal(30000, search.TargetValue)
	require.Equal("clicks", search.TargetMetric)

	_, ok = c.Channel(metrics.ChannelSocialTikTok)
	require.False(ok)
}

func TestCatalog(t *testing.T) {
	require := require.New(t)

	cat := DemoCatalog()
	require.Len(cat.List(), 2)

	got, err := cat.Get(1)
	require.NoError(err)
	require.Equal("mbbh-2026", got.Slug)

	_, err = cat.Get(99)
	require.ErrorIs(err, ErrNotFound)

	added := cat.Add(Definition{
		Name:      "Test Flight",
		Slug:      "test-flight",
		StartDate: mustDate("2026-05-01"),
		EndDate:   mustDate("2026-05-10"),
	})
	require.Equal(int64(3), added.ID)
	require.Len(cat.List(), 3)
}

func TestCatalogListOrdered(t *testing.T) {
	require := require.New(t)

	cat := DemoCatalog()
	list := cat.List()
	for i := 1; i < len(list); i++ {
		require.Less(list[i-1].ID, list[i].ID)
	}
}
