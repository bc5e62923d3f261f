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

// limitClamp normaliza la paginación: limit <= 0 se traduce en "sin tope"
// razonable para listados administrativos.
func limitClamp(limit int) int {
	if limit <= 0 {
		return 1000
	}
	return limit
}
