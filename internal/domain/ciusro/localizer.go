// Package ciusro implementa las reglas de la localización rumana CIUS-RO sobre los
// valores UBL genéricos: formateo de direcciones, clasificación de categorías de
// impuesto, signo de las notas de crédito, valores por defecto y restricciones de
// exportación. Las reglas de importación y los auxiliares del PDF ANAF también viven aquí.
//
// Todas las funciones son puras respecto a la base de datos y a la red.
package ciusro

import (
	"github.com/rs/zerolog"

	"github.com/jhoicas/efactura-ciusro/internal/domain/entity"
	"github.com/jhoicas/efactura-ciusro/internal/domain/ubl"
)

// Nombres de los pasos de localización, en orden de aplicación.
const (
	StepPartyAddress   = "party_address"
	StepPartyTaxScheme = "party_tax_scheme"
	StepTaxCategory    = "tax_category"
	StepCreditNoteSign = "credit_note_sign"
	StepDelivery       = "delivery"
	StepLineItem       = "line_item"
	StepReferences     = "references"
	StepLineNumbering  = "line_numbering"
	StepPaymentMeans   = "payment_means"
)

// Input datos de solo lectura sobre los que razonan los pasos.
type Input struct {
	Invoice  *entity.Invoice
	Supplier *entity.Partner
	Customer *entity.Partner
}

// Step transformación con nombre sobre los valores acumulados del documento.
// Apply no debe retener in ni doc después de retornar.
type Step struct {
	Name  string
	Apply func(in Input, doc *ubl.Document)
}

// Localizer aplica los pasos CIUS-RO en un orden fijo.
type Localizer struct {
	steps []Step
	log   zerolog.Logger
}

// DefaultSteps devuelve la secuencia CIUS-RO completa.
//
// El orden importa: la clasificación de impuestos precede a la limpieza de la
// categoría AE de los ítems, y la inversión de signo se hace sobre los importes
// genéricos antes de cualquier otro cambio a las líneas.
func DefaultSteps() []Step {
	return []Step{
		{Name: StepPartyAddress, Apply: applyPartyAddress},
		{Name: StepPartyTaxScheme, Apply: applyPartyTaxScheme},
		{Name: StepTaxCategory, Apply: applyTaxCategory},
		{Name: StepCreditNoteSign, Apply: applyCreditNoteSign},
		{Name: StepDelivery, Apply: applyDelivery},
		{Name: StepLineItem, Apply: applyLineItem},
		{Name: StepReferences, Apply: applyReferences},
		{Name: StepLineNumbering, Apply: applyLineNumbering},
		{Name: StepPaymentMeans, Apply: applyPaymentMeans},
	}
}

// NewLocalizer construye el localizador con los pasos por defecto.
func NewLocalizer(log zerolog.Logger) *Localizer {
	return &Localizer{steps: DefaultSteps(), log: log}
}

// NewLocalizerWithSteps permite inyectar una secuencia distinta (tests).
func NewLocalizerWithSteps(log zerolog.Logger, steps []Step) *Localizer {
	return &Localizer{steps: steps, log: log}
}

// Steps nombres de los pasos configurados.
func (l *Localizer) Steps() []string {
	names := make([]string, len(l.steps))
	for i, s := range l.steps {
		names[i] = s.Name
	}
	return names
}

// Localize muta doc aplicando cada paso en orden.
func (l *Localizer) Localize(doc *ubl.Document) {
	if doc == nil || doc.Invoice == nil {
		return
	}
	in := Input{Invoice: doc.Invoice, Supplier: doc.Supplier, Customer: doc.Customer}
	for _, s := range l.steps {
		s.Apply(in, doc)
		l.log.Debug().
			Str("invoice", doc.Invoice.Name).
			Str("step", s.Name).
			Msg("ciusro: paso aplicado")
	}
}
