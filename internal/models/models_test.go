package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, 5, 1, 5},
		{4, 1000, 4, 100},
		{2, 100, 2, 100},
		{math.MaxInt, 10, MaxPage, 10},
		{MaxPage + 1, 100, MaxPage, 100},
	}
	for _, tc := range cases {
		page, limit := NormalizePage(tc.page, tc.limit)
		require.Equal(t, tc.wantPage, page)
		require.Equal(t, tc.wantLimit, limit)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(1, 10, 0)
	require.Equal(t, 0, p.TotalPages)
	require.False(t, p.HasNext)
	require.False(t, p.HasPrev)

	p = NewPagination(2, 10, 25)
	require.Equal(t, 3, p.TotalPages)
	require.True(t, p.HasNext)
	require.True(t, p.HasPrev)

	p = NewPagination(3, 10, 30)
	require.False(t, p.HasNext)
}

func TestPickupStatusTransitions(t *testing.T) {
	require.True(t, PickupStatusPending.CanTransitionTo(PickupStatusScheduled))
	require.True(t, PickupStatusPending.CanTransitionTo(PickupStatusCancelled))
	require.False(t, PickupStatusPending.CanTransitionTo(PickupStatusInProgress))
	require.True(t, PickupStatusScheduled.CanTransitionTo(PickupStatusInProgress))
	require.True(t, PickupStatusInProgress.CanTransitionTo(PickupStatusCompleted))
	require.False(t, PickupStatusInProgress.CanTransitionTo(PickupStatusPending))

	for _, terminal := range []PickupStatus{PickupStatusCompleted, PickupStatusCancelled} {
		for _, next := range []PickupStatus{PickupStatusPending, PickupStatusScheduled, PickupStatusInProgress, PickupStatusCompleted, PickupStatusCancelled} {
			require.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}

	require.False(t, PickupStatus("done").Valid())
}

func TestEnumValidation(t *testing.T) {
	for _, wt := range WasteTypes {
		require.True(t, wt.Valid())
	}
	require.False(t, WasteType("textile").Valid())
	require.False(t, WasteType("").Valid())

	require.True(t, MemberStatusSuspended.Valid())
	require.False(t, MemberStatus("banned").Valid())

	require.True(t, NotificationAnnouncement.Valid())
	require.False(t, NotificationType("birthday").Valid())
}
