package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, gameID string) (Game, bool, error)
	Insert(ctx context.Context, item Game) error
	Update(ctx context.Context, item Game) error
	UpdateStatus(ctx context.Context, gameID, status string, statusCode int) error
}
