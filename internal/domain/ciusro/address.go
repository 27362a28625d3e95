package ciusro

import (
	"strings"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// FormatAddress aplica las reglas CIUS-RO de dirección sobre la dirección genérica del socio:
//   - cbc:CountrySubentity = "{país}-{județ}" si el socio tiene județ.
//   - En București, una ciudad que contiene "sector" pasa a mayúsculas sin espacios ("Sector 1" → "SECTOR1").
func FormatAddress(partner *entity.Partner, base ubl.AddressVals) ubl.AddressVals {
	if partner == nil {
		return base
	}
	out := base
	if partner.HasState() {
		country := partner.StateCountryCode
		if country == "" {
			country = partner.CountryCode
		}
		out.CountrySubentity = country + "-" + partner.StateCode
	}
	if partner.StateCode == ciusro.StateBucharest && strings.Contains(strings.ToLower(partner.City), "sector") {
		out.CityName = CompactCity(partner.City)
	}
	return out
}

// CompactCity pasa la ciudad a mayúsculas y elimina los espacios ASCII (" "); otros
// separadores como el NBSP se conservan, así que "Sector\u00a01" no es un sector.
func CompactCity(city string) string {
	return strings.ReplaceAll(strings.ToUpper(city), " ", "")
}

// IsSectorCity indica si la ciudad normalizada es uno de los seis sectores de București.
func IsSectorCity(city string) bool {
	return ciusro.SectorCodes[CompactCity(city)]
}

// IsCompanyIDOnly indica si el identificador fiscal de un socio rumano es un CUI sin prefijo
// "RO" (no registrado a efectos de TVA).
func IsCompanyIDOnly(partner *entity.Partner) bool {
	if partner == nil || partner.VAT == "" {
		return false
	}
	return partner.CountryCode == ciusro.CountryRomania &&
		!strings.HasPrefix(strings.ToUpper(partner.VAT), ciusro.CountryRomania)
}

func applyPartyAddress(in Input, doc *ubl.Document) {
	doc.Vals.Supplier.Address = FormatAddress(in.Supplier, doc.Vals.Supplier.Address)
	doc.Vals.Customer.Address = FormatAddress(in.Customer, doc.Vals.Customer.Address)
}

func applyPartyTaxScheme(in Input, doc *ubl.Document) {
	markTaxScheme(in.Supplier, doc.Vals.Supplier.TaxSchemes)
	markTaxScheme(in.Customer, doc.Vals.Customer.TaxSchemes)
}

func markTaxScheme(partner *entity.Partner, schemes []ubl.PartyTaxSchemeVals) {
	if !IsCompanyIDOnly(partner) {
		return
	}
	for i := range schemes {
		schemes[i].TaxSchemeID = ubl.TaxSchemeNotVAT
	}
}
