package repository

import (
	"context"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
)

// PartnerRepository socios comerciales.
type PartnerRepository interface {
	// FindByVAT busca por CUI/cod TVA con o sin prefijo "RO". (nil, nil) si no existe.
	FindByVAT(ctx context.Context, companyID, vat string) (*entity.Partner, error)
}
