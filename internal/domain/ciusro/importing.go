package ciusro

import (
	"strings"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// NeedsExemptTax indica si la línea importada declara exactamente una categoría
// clasificada y esta es O, E o Z (sin impacto contable).
func NeedsExemptTax(classifiedIDs []string) bool {
	if len(classifiedIDs) != 1 {
		return false
	}
	return ciusro.NoAccountingImpactCategories[strings.TrimSpace(classifiedIDs[0])]
}

// TaxUseForJournal uso de impuesto que corresponde al tipo de diario (venta o compra).
func TaxUseForJournal(j *entity.Journal) string {
	if j != nil && j.Type == entity.JournalTypeSale {
		return entity.TaxUseSale
	}
	return entity.TaxUsePurchase
}

// DefaultLineAccount asigna la cuenta por defecto del diario si la línea no tiene cuenta.
// Devuelve true si la línea fue modificada.
func DefaultLineAccount(line *entity.InvoiceLine, j *entity.Journal) bool {
	if line == nil || j == nil || line.AccountID != "" || j.DefaultAccountID == "" {
		return false
	}
	line.AccountID = j.DefaultAccountID
	return true
}
