package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplicationStatusFunnel(t *testing.T) {
	t.Run("воронка проходится по порядку", func(t *testing.T) {
		require.True(t, ApplicationStatusInvited.IsAllowChange(ApplicationStatusCompleted))
		require.True(t, ApplicationStatusCompleted.IsAllowChange(ApplicationStatusApproved))
		require.True(t, ApplicationStatusApproved.IsAllowChange(ApplicationStatusSelected))
	})

	t.Run("этапы нельзя перепрыгивать", func(t *testing.T) {
		require.False(t, ApplicationStatusInvited.IsAllowChange(ApplicationStatusApproved))
		require.False(t, ApplicationStatusInvited.IsAllowChange(ApplicationStatusSelected))
		require.False(t, ApplicationStatusCompleted.IsAllowChange(ApplicationStatusSelected))
	})

	t.Run("отклонение доступно из любого нетерминального статуса", func(t *testing.T) {
		for _, s := range []ApplicationStatus{
			ApplicationStatusInvited,
			ApplicationStatusCompleted,
			ApplicationStatusApproved,
			ApplicationStatusSelected,
		} {
			require.True(t, s.IsAllowChange(ApplicationStatusRejected), "%v -> rejected", s)
		}
	})

	t.Run("из отклоненного выхода нет", func(t *testing.T) {
		for _, next := range []ApplicationStatus{
			ApplicationStatusInvited, ApplicationStatusCompleted,
			ApplicationStatusApproved, ApplicationStatusSelected,
		} {
			require.False(t, ApplicationStatusRejected.IsAllowChange(next), "rejected -> %v", next)
		}
	})
}

func TestHiredStatus(t *testing.T) {
	require.True(t, HiredStatusHired.IsConfirmed())
	require.True(t, HiredStatusNotHired.IsConfirmed())
	require.False(t, HiredStatusNone.IsConfirmed())
}
