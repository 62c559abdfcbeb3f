package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRqStatusTransitions(t *testing.T) {
	t.Run("жизненный цикл заявки", func(t *testing.T) {
		require.True(t, RqStatusDraft.IsAllowChange(RqStatusPendingApproval))
		require.True(t, RqStatusPendingApproval.IsAllowChange(RqStatusApproved))
		require.True(t, RqStatusApproved.IsAllowChange(RqStatusPublished))
		require.True(t, RqStatusPublished.IsAllowChange(RqStatusClosed))
	})

	t.Run("отмена доступна до публикации", func(t *testing.T) {
		require.True(t, RqStatusDraft.IsAllowChange(RqStatusCancelled))
		require.True(t, RqStatusPendingApproval.IsAllowChange(RqStatusCancelled))
		require.True(t, RqStatusApproved.IsAllowChange(RqStatusCancelled))
		require.False(t, RqStatusPublished.IsAllowChange(RqStatusCancelled))
	})

	t.Run("из терминальных статусов выхода нет", func(t *testing.T) {
		for _, next := range []RqStatus{
			RqStatusDraft, RqStatusPendingApproval, RqStatusApproved,
			RqStatusPublished, RqStatusClosed, RqStatusCancelled,
		} {
			require.False(t, RqStatusClosed.IsAllowChange(next), "closed -> %v", next)
			require.False(t, RqStatusCancelled.IsAllowChange(next), "cancelled -> %v", next)
		}
		require.True(t, RqStatusClosed.IsTerminal())
		require.True(t, RqStatusCancelled.IsTerminal())
		require.False(t, RqStatusPublished.IsTerminal())
	})

	t.Run("решение согласующего только на этапе согласования", func(t *testing.T) {
		require.True(t, RqStatusPendingApproval.AllowAct())
		require.False(t, RqStatusDraft.AllowAct())
		require.False(t, RqStatusApproved.AllowAct())
		require.False(t, RqStatusClosed.AllowAct())
	})
}

func TestRqApprovalStatus(t *testing.T) {
	require.True(t, RqApprovalApproved.IsApproved())
	require.True(t, RqApprovalAutoApproved.IsApproved())
	require.False(t, RqApprovalPending.IsApproved())
	require.False(t, RqApprovalRejected.IsApproved())
}

func TestApprovalDecisionValidate(t *testing.T) {
	require.Nil(t, DecisionApprove.Validate())
	require.Nil(t, DecisionReject.Validate())
	require.NotNil(t, ApprovalDecision("maybe").Validate())
	require.NotNil(t, ApprovalDecision("").Validate())
}
