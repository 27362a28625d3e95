package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo diarios contables.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// GetByID devuelve (nil, nil) si no existe.
func (r *JournalRepo) GetByID(ctx context.Context, id string) (*entity.Journal, error) {
	const query = `
		SELECT id, company_id, name, type, COALESCE(default_account_id::text, '')
		FROM journals WHERE id = $1`
	var j entity.Journal
	err := r.q.QueryRow(ctx, query, id).Scan(&j.ID, &j.CompanyID, &j.Name, &j.Type, &j.DefaultAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get journal: %w", err)
	}
	return &j, nil
}
