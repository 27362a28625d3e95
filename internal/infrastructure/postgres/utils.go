package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// normalizeVAT quita espacios y el prefijo de país rumano para comparar identificadores fiscales.
func normalizeVAT(vat string) string {
	v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(vat), " ", ""))
	return strings.TrimPrefix(v, "RO")
}
