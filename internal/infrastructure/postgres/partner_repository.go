package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/repository"
)

var _ repository.PartnerRepository = (*PartnerRepo)(nil)

// PartnerRepo socios comerciales.
type PartnerRepo struct {
	q Querier
}

// NewPartnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartnerRepository(q Querier) *PartnerRepo {
	return &PartnerRepo{q: q}
}

const partnerColumns = `
	p.id, COALESCE(p.company_id::text, ''), COALESCE(p.commercial_partner_id::text, ''), p.name,
	COALESCE(p.ref, ''), COALESCE(p.vat, ''), COALESCE(p.company_registry, ''),
	COALESCE(p.street, ''), COALESCE(p.street2, ''), COALESCE(p.city, ''), COALESCE(p.zip, ''),
	COALESCE(p.state_code, ''), COALESCE(p.state_country_code, ''), COALESCE(p.country_code, ''),
	p.vat_subjected, COALESCE(p.email, ''), COALESCE(p.phone, ''), p.created_at, p.updated_at`

func scanPartner(row pgx.Row) (*entity.Partner, error) {
	var p entity.Partner
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.CommercialPartnerID, &p.Name,
		&p.Ref, &p.VAT, &p.CompanyRegistry,
		&p.Street, &p.Street2, &p.City, &p.Zip,
		&p.StateCode, &p.StateCountryCode, &p.CountryCode,
		&p.VATSubjected, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetByID devuelve (nil, nil) si id está vacío o no existe.
func (r *PartnerRepo) GetByID(ctx context.Context, id string) (*entity.Partner, error) {
	if id == "" {
		return nil, nil
	}
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners p WHERE p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get partner: %w", err)
	}
	return p, nil
}

// FindByVAT busca por identificador fiscal ignorando el prefijo "RO" y los espacios.
func (r *PartnerRepo) FindByVAT(ctx context.Context, companyID, vat string) (*entity.Partner, error) {
	norm := normalizeVAT(vat)
	if norm == "" {
		return nil, nil
	}
	const where = `
		FROM partners p
		WHERE (p.company_id = $1 OR p.company_id IS NULL)
		  AND regexp_replace(upper(replace(COALESCE(p.vat, ''), ' ', '')), '^RO', '') = $2
		ORDER BY p.company_id NULLS LAST, p.created_at
		LIMIT 1`
	p, err := scanPartner(r.q.QueryRow(ctx, `SELECT `+partnerColumns+where, companyID, norm))
	if err != nil {
		return nil, fmt.Errorf("find partner by vat: %w", err)
	}
	return p, nil
}
