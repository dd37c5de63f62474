package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/suestoque-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation verifica si el error es una FK inexistente (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isBadReference FK inexistente o id con formato inválido para una columna UUID (22P02).
func isBadReference(err error) bool {
	return isForeignKeyViolation(err) || hasCode(err, "22P02")
}

// validID indica si id es un UUID; los ids malformados se tratan como inexistentes.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func invalidFilter(field, id string) error {
	return fmt.Errorf("%w: %s '%s' no es un id válido", domain.ErrInvalidInput, field, id)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// likePattern arma el patrón ILIKE "contiene" escapando comodines.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(q)) + "%"
}

// argList acumula argumentos posicionales para consultas con filtros opcionales.
type argList struct {
	args []any
}

// add agrega el valor y devuelve su placeholder ($n).
func (a *argList) add(v any) string {
	a.args = append(a.args, v)
	return fmt.Sprintf("$%d", len(a.args))
}

// limitOffset agrega LIMIT/OFFSET; limit <= 0 no limita.
func (a *argList) limitOffset(limit, offset int) string {
	out := ""
	if limit > 0 {
		out += " LIMIT " + a.add(limit)
	}
	if offset > 0 {
		out += " OFFSET " + a.add(offset)
	}
	return out
}
