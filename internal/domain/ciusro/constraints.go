package ciusro

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
	"github.com/jhoicas/efactura-ciusro/pkg/ciusro"
)

// Roles de socio verificados antes de exportar.
const (
	RoleSupplier = "supplier"
	RoleCustomer = "customer"
)

// Mensajes (clave de catálogo en inglés).
const (
	msgFieldRequired   = "The element %s is required on %s."
	msgTaxIdentifier   = "The following partner doesn't have a VAT nor Company ID: %s. At least one of them is required."
	msgCountryCodeVAT  = "The following partner's doesn't have a country code prefix in their VAT: %s."
	msgInvalidCityName = "The following partner's city name is invalid: %s. If partner's state is București, the city name must be 'SECTORX', where X is a number between 1-6."
	labelCity          = "City"
	labelStreet        = "Street"
	labelState         = "State"
)

func init() {
	ro := language.Romanian
	_ = message.SetString(ro, msgFieldRequired, "Elementul %s este obligatoriu pentru %s.")
	_ = message.SetString(ro, msgTaxIdentifier, "Partenerul următor nu are nici cod TVA, nici CUI: %s. Cel puțin unul dintre ele este obligatoriu.")
	_ = message.SetString(ro, msgCountryCodeVAT, "Codul TVA al partenerului următor nu are prefixul de țară: %s.")
	_ = message.SetString(ro, msgInvalidCityName, "Numele orașului partenerului următor este invalid: %s. Dacă județul partenerului este București, orașul trebuie să fie 'SECTORX', unde X este un număr între 1 și 6.")
	_ = message.SetString(ro, labelCity, "Oraș")
	_ = message.SetString(ro, labelStreet, "Stradă")
	_ = message.SetString(ro, labelState, "Județ")
}

// Constraints mapa clave de restricción → mensaje legible. Vacía significa que se puede exportar.
type Constraints map[string]string

// Keys claves ordenadas (salida estable para la API y los logs).
func (c Constraints) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewPrinter devuelve un printer para el idioma indicado (BCP 47); inglés si no se reconoce.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// CheckConstraints verifica proveedor y cliente del documento. Nunca falla:
// solo informa las violaciones y el llamador decide si bloquea la exportación.
func CheckConstraints(doc *ubl.Document, p *message.Printer) Constraints {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	out := Constraints{}
	checkPartner(out, p, RoleSupplier, doc.Supplier)
	checkPartner(out, p, RoleCustomer, doc.Customer)
	return out
}

func checkPartner(out Constraints, p *message.Printer, role string, partner *entity.Partner) {
	if partner == nil {
		partner = &entity.Partner{}
	}
	key := func(suffix string) string { return "ciusro_" + role + "_" + suffix }

	if strings.TrimSpace(partner.City) == "" {
		out[key("city_required")] = p.Sprintf(msgFieldRequired, p.Sprintf(labelCity), partner.Name)
	}
	if strings.TrimSpace(partner.Street) == "" {
		out[key("street_required")] = p.Sprintf(msgFieldRequired, p.Sprintf(labelStreet), partner.Name)
	}
	if partner.StateCode == "" {
		out[key("state_id_required")] = p.Sprintf(msgFieldRequired, p.Sprintf(labelState), partner.Name)
	}
	if partner.VAT == "" && partner.CompanyRegistry == "" {
		out[key("tax_identifier_required")] = p.Sprintf(msgTaxIdentifier, partner.Name)
	}
	if partner.VATSubjected && partner.VAT != "" && !strings.HasPrefix(partner.VAT, partner.CountryCode) {
		out[key("country_code_vat_required")] = p.Sprintf(msgCountryCodeVAT, partner.Name)
	}
	if partner.CountryCode == ciusro.CountryRomania &&
		partner.StateCode == ciusro.StateBucharest &&
		!IsSectorCity(partner.City) {
		out[key("invalid_city_name")] = p.Sprintf(msgInvalidCityName, partner.Name)
	}
}
