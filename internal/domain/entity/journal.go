package entity

// Tipos de diario.
const (
	JournalTypeSale     = "sale"
	JournalTypePurchase = "purchase"
)

// Journal diario contable en el que se importan las facturas.
type Journal struct {
	ID               string
	CompanyID        string
	Name             string
	Type             string // sale | purchase
	DefaultAccountID string
}
