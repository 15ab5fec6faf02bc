package pick

import "context"

// Repository describes pick persistence needs. Every mutation is guarded by
// the current stored state so reruns are no-ops.
type Repository interface {
	ListPending(ctx context.Context, season int) ([]Pick, error)
	// ListUnresolvedByPlayer returns the player's picks that have not
	// resolved successfully. Flagged picks are included so the removal path
	// can still act on them.
	ListUnresolvedByPlayer(ctx context.Context, playerID string) ([]Pick, error)
	// ListUnresolvedPlayerIDs returns distinct player ids that still have at
	// least one unresolved pick.
	ListUnresolvedPlayerIDs(ctx context.Context, season int) ([]string, error)
	// MarkSuccessful flips is_successful once; returns false when the pick was
	// already resolved.
	MarkSuccessful(ctx context.Context, pickID int64) (bool, error)
	// MarkInjured flags an unresolved pick once; returns false when already
	// flagged or resolved.
	MarkInjured(ctx context.Context, pickID int64) (bool, error)
	// DeleteUnresolved removes a pick unless it already resolved successfully.
	DeleteUnresolved(ctx context.Context, pickID int64) (bool, error)
}
