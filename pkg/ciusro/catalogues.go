// Package ciusro contiene catálogos y constantes del perfil CIUS-RO
// (RO e-Factura, EN 16931) usados al exportar e importar facturas UBL 2.1.
package ciusro

// CustomizationID identificador del perfil CIUS-RO que se estampa en cbc:CustomizationID.
const CustomizationID = "urn:cen.eu:en16931:2017#compliant#urn:efactura.mfinante.ro:CIUS-RO:1.0.1"

// ProfileID perfil de proceso PEPPOL BIS Billing 3.0.
const ProfileID = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"

// =============================================================================
// UNCL5305 - Códigos de categoría de impuesto
// =============================================================================

const (
	TaxCategoryStandard      = "S"  // Tasa estándar
	TaxCategoryZero          = "Z"  // Tasa cero
	TaxCategoryExempt        = "E"  // Exento
	TaxCategoryReverseCharge = "AE" // Taxare inversă
	TaxCategoryIntraEU       = "K"  // Entrega intracomunitaria
	TaxCategoryExport        = "G"  // Exportación fuera de la UE
	TaxCategoryOutOfScope    = "O"  // Fuera del ámbito del IVA
)

// NoAccountingImpactCategories categorías que no generan asientos contables:
// al importar, cualquier impuesto al 0% de la compañía es equivalente.
var NoAccountingImpactCategories = map[string]bool{
	TaxCategoryOutOfScope: true,
	TaxCategoryExempt:     true,
	TaxCategoryZero:       true,
}

// Códigos VATEX de motivo de exención.
const (
	ExemptionReverseCharge = "VATEX-EU-AE"
)

// ExemptionReasonDefault texto de exención que pone el exportador genérico para la categoría E.
const ExemptionReasonDefault = "Articles 226 items 11 to 15 Directive 2006/112/EN"

// ReverseChargeKeyword palabra buscada (sin distinguir mayúsculas) en el nombre del impuesto
// para detectar la taxare inversă.
const ReverseChargeKeyword = "Invers"

// TaxSchemeVAT esquema de impuesto estándar en cac:PartyTaxScheme.
const TaxSchemeVAT = "VAT"

// =============================================================================
// Direcciones - București
// =============================================================================

// StateBucharest código de județ de București.
const StateBucharest = "B"

// CountryRomania código ISO 3166-1 de Rumanía.
const CountryRomania = "RO"

// SectorCodes nombres canónicos de ciudad para los seis sectores de București.
var SectorCodes = map[string]bool{
	"SECTOR1": true,
	"SECTOR2": true,
	"SECTOR3": true,
	"SECTOR4": true,
	"SECTOR5": true,
	"SECTOR6": true,
}

// =============================================================================
// UNCL4461 - Medios de pago
// =============================================================================

const (
	PaymentMeansNotDefined     = "1"  // Not Defined
	PaymentMeansCreditTransfer = "31" // Debit transfer / transferencia
	PaymentMeansSEPATransfer   = "58"
)

// PaymentMeansNotDefinedName atributo name de cbc:PaymentMeansCode para el código 1.
const PaymentMeansNotDefinedName = "Not Defined"

// =============================================================================
// UNCL1001 - Tipo de documento
// =============================================================================

const (
	DocumentTypeInvoice    = "380"
	DocumentTypeCreditNote = "381"
)

// =============================================================================
// Límites de longitud de campos CIUS-RO
// =============================================================================

const (
	MaxLineDescriptionLen = 200
	MaxLineNameLen        = 100
	MaxOrderReferenceLen  = 30
)

// =============================================================================
// ANAF - servicio de transformación XML → PDF
// =============================================================================

const (
	// ANAFDefaultBaseURL raíz REST del servicio FCTEL de producción.
	ANAFDefaultBaseURL = "https://webservicesp.anaf.ro/prod/FCTEL/rest"
	// ANAFDocumentInvoice segmento de tipo de documento para facturas.
	ANAFDocumentInvoice = "FACT1"
	// ANAFDocumentCreditNote segmento de tipo de documento para notas de crédito.
	ANAFDocumentCreditNote = "FCN"
	// ANAFValidate segmento "DA": validar antes de transformar.
	ANAFValidate = "DA"
	// ANAFRejectedMarker texto de la página HTML de rechazo del firewall ANAF.
	ANAFRejectedMarker = "The requested URL was rejected"
	// ANAFProblematicSchemaLocation atributo que provoca el rechazo; se elimina en el reintento.
	ANAFProblematicSchemaLocation = `xsi:schemaLocation="urn:oasis:names:specification:ubl:schema:xsd:Invoice-2 ../../UBL-2.1(1)/xsd/maindoc/UBLInvoice-2.1.xsd"`
)
