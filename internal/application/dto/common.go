package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ConstraintErrorResponse cuerpo del 422 cuando la factura incumple CIUS-RO.
type ConstraintErrorResponse struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Constraints []ConstraintEntry `json:"constraints"`
}

// ConstraintEntry restricción incumplida (clave estable + mensaje traducido).
type ConstraintEntry struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}
