package ciusro

import (
	"strings"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// IsReverseCharge indica si algún nombre de impuesto contiene "Invers" (sin distinguir mayúsculas).
//
// TODO(fiscal): sustituir por un campo estructurado en account_tax cuando el plan de
// impuestos rumano lo exponga; hoy depende de que los nombres sigan la convención.
func IsReverseCharge(taxNames []string) bool {
	keyword := strings.ToLower(ciusro.ReverseChargeKeyword)
	for _, name := range taxNames {
		if strings.Contains(strings.ToLower(name), keyword) {
			return true
		}
	}
	return false
}

// ClassifyTaxCategory aplica la precedencia CIUS-RO sobre la categoría genérica:
// taxare inversă (AE) › tasa cero (Z) › categoría genérica.
func ClassifyTaxCategory(cat ubl.TaxCategoryVals, taxNames []string) ubl.TaxCategoryVals {
	if IsReverseCharge(taxNames) {
		cat.ID = ciusro.TaxCategoryReverseCharge
		cat.TaxCategoryCode = ciusro.TaxCategoryReverseCharge
		cat.TaxExemptionReasonCode = ciusro.ExemptionReverseCharge
		cat.TaxExemptionReason = ""
		return cat
	}
	if cat.Percent.IsZero() {
		cat.ID = ciusro.TaxCategoryZero
		cat.TaxCategoryCode = ciusro.TaxCategoryZero
		cat.TaxExemptionReason = ""
	}
	return cat
}

func applyTaxCategory(in Input, doc *ubl.Document) {
	byID := make(map[string]*entity.Tax)
	for _, line := range in.Invoice.Lines {
		for _, t := range line.Taxes {
			byID[t.ID] = t
		}
	}

	for i := range doc.Vals.TaxTotals {
		subs := doc.Vals.TaxTotals[i].Subtotals
		for j := range subs {
			var names []string
			if t, ok := byID[subs[j].TaxID]; ok {
				names = []string{t.Name}
			}
			subs[j].Category = ClassifyTaxCategory(subs[j].Category, names)
		}
	}

	for i := range doc.Vals.Lines {
		if i >= len(in.Invoice.Lines) {
			break
		}
		names := in.Invoice.Lines[i].TaxNames()
		cats := doc.Vals.Lines[i].Item.ClassifiedTaxCategories
		for j := range cats {
			cats[j] = ClassifyTaxCategory(cats[j], names)
		}
		taxes := doc.Vals.Lines[i].TaxTotals
		for j := range taxes {
			taxes[j].Category = ClassifyTaxCategory(taxes[j].Category, names)
		}
	}
}
