package paywall

import "github.com/billyrestey/golfstrategy/internal/client/session"

// Decision is the entitlement outcome for the current flow. It is derived,
// never stored, and must be re-evaluated whenever the session changes.
type Decision int

const (
	// Denied blocks the content entirely: anonymous user, paid flow.
	Denied Decision = iota
	// PreviewOnly shows the blurred teaser: authenticated but out of credit.
	PreviewOnly
	// Granted reveals the full content.
	Granted
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case PreviewOnly:
		return "preview_only"
	default:
		return "denied"
	}
}

// Decide computes the entitlement for a flow. Free flows are always
// granted. Paid flows are granted to pro accounts and to accounts holding
// at least one credit.
func Decide(snap session.Snapshot, requirePayment bool) Decision {
	if !requirePayment {
		return Granted
	}
	if !snap.Authenticated {
		return Denied
	}
	if snap.IsPro() || snap.Credits > 0 {
		return Granted
	}
	return PreviewOnly
}

// CloseAllowed reports whether a close affordance may dismiss the gated
// view. While a paid flow is not granted, closing is a no-op: dismissing
// must not leak the full content.
func CloseAllowed(requirePayment bool, decision Decision) bool {
	return !requirePayment || decision == Granted
}
