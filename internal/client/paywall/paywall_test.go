package paywall

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/billyrestey/golfstrategy/internal/client/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name           string
		snap           session.Snapshot
		requirePayment bool
		want           Decision
	}{
		{
			name:           "anonymous paid flow",
			snap:           session.Snapshot{},
			requirePayment: true,
			want:           Denied,
		},
		{
			name:           "authenticated without credit",
			snap:           session.Snapshot{Authenticated: true, Tier: "free", Credits: 0},
			requirePayment: true,
			want:           PreviewOnly,
		},
		{
			name:           "authenticated with one credit",
			snap:           session.Snapshot{Authenticated: true, Tier: "free", Credits: 1},
			requirePayment: true,
			want:           Granted,
		},
		{
			name:           "pro with zero credits",
			snap:           session.Snapshot{Authenticated: true, Tier: "pro", Credits: 0},
			requirePayment: true,
			want:           Granted,
		},
		{
			name:           "free flow, anonymous",
			snap:           session.Snapshot{},
			requirePayment: false,
			want:           Granted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decide(tt.snap, tt.requirePayment))
		})
	}
}

func TestCloseAllowed(t *testing.T) {
	require.False(t, CloseAllowed(true, Denied))
	require.False(t, CloseAllowed(true, PreviewOnly))
	require.True(t, CloseAllowed(true, Granted))
	require.True(t, CloseAllowed(false, Denied))
	require.True(t, CloseAllowed(false, PreviewOnly))
}
