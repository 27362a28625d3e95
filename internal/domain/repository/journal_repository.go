package repository

import (
	"context"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// JournalRepository diarios contables.
type JournalRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Journal, error)
}
