// Package collab defines the boundary contracts to external platform
// collaborators. Everything here is best-effort and asynchronous from the
// core's point of view: a failed or slow collaborator never blocks or
// fails a ledger operation.
package collab

import "context"

// IdentityLookup resolves a user's display name on the chat platform.
type IdentityLookup interface {
	DisplayName(ctx context.Context, userID int64) (string, error)
}

// BadgeAssigner grants or revokes the high-roller status marker when a
// user's balance crosses the badge threshold. Implementations must
// tolerate re-granting an already-granted marker.
type BadgeAssigner interface {
	GrantBadge(ctx context.Context, userID int64) error
	RevokeBadge(ctx context.Context, userID int64) error
}
