package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
)

var _ repository.TaxRepository = (*TaxRepo)(nil)

// TaxRepo impuestos de la compañía.
type TaxRepo struct {
	q Querier
}

// NewTaxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxRepository(q Querier) *TaxRepo {
	return &TaxRepo{q: q}
}

// FindZeroPercent primer impuesto porcentual al 0% de la compañía para el uso indicado.
func (r *TaxRepo) FindZeroPercent(ctx context.Context, companyID, taxUse string) (*entity.Tax, error) {
	t, err := r.findPercent(ctx, companyID, taxUse, decimal.Zero)
	if err != nil {
		return nil, fmt.Errorf("find zero tax: %w", err)
	}
	return t, nil
}

// FindByPercent primer impuesto porcentual con ese importe.
func (r *TaxRepo) FindByPercent(ctx context.Context, companyID, taxUse string, percent decimal.Decimal) (*entity.Tax, error) {
	t, err := r.findPercent(ctx, companyID, taxUse, percent)
	if err != nil {
		return nil, fmt.Errorf("find tax by percent: %w", err)
	}
	return t, nil
}

func (r *TaxRepo) findPercent(ctx context.Context, companyID, taxUse string, percent decimal.Decimal) (*entity.Tax, error) {
	const query = `
		SELECT id, company_id, name, amount, amount_type, type_tax_use,
		       COALESCE(category_code, ''), COALESCE(exemption_reason_code, ''), COALESCE(exemption_reason, '')
		FROM taxes
		WHERE company_id = $1 AND type_tax_use = $2 AND amount_type = 'percent' AND amount = $3
		ORDER BY sequence, id
		LIMIT 1`
	var t entity.Tax
	err := r.q.QueryRow(ctx, query, companyID, taxUse, percent).Scan(
		&t.ID, &t.CompanyID, &t.Name, &t.Amount, &t.AmountType, &t.TypeTaxUse,
		&t.CategoryCode, &t.ExemptionReasonCode, &t.ExemptionReason,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
