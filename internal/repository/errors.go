package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

const pgUniqueViolation = "23505"

// mapErr normalizes driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// setBuilder collects "col = $n" fragments for partial updates.
type setBuilder struct {
	parts []string
	args  []any
}

func (b *setBuilder) add(col string, v any) {
	b.args = append(b.args, v)
	b.parts = append(b.parts, fmt.Sprintf("%s = $%d", col, len(b.args)))
}

func (b *setBuilder) addRaw(expr string) {
	b.parts = append(b.parts, expr)
}

func (b *setBuilder) empty() bool { return len(b.parts) == 0 }

// build returns the SET clause and the placeholder index for the trailing WHERE arg.
func (b *setBuilder) build() (string, int) {
	return strings.Join(b.parts, ", "), len(b.args) + 1
}

func itoa(i int) string { return strconv.Itoa(i) }
