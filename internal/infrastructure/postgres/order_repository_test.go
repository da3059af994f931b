package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/facturation-ci/internal/domain"
	"github.com/jhoicas/facturation-ci/internal/infrastructure/postgres"
)

// countingQuerier cuenta las sentencias enviadas; ninguna llega a una base real.
type countingQuerier struct{ calls int }

func (q *countingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.calls++
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (q *countingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.calls++
	return nil, errors.New("sin base de datos")
}

func (q *countingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.calls++
	return nil
}

func TestSetFNEItemID_IDVacio_NoEscribe(t *testing.T) {
	q := &countingQuerier{}
	repo := postgres.NewOrderRepository(q)

	for _, ext := range []string{"", "   "} {
		err := repo.SetFNEItemID(context.Background(), "l1", ext)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Zero(t, q.calls, "un id vacío nunca llega a order_items")

	assert.NoError(t, repo.SetFNEItemID(context.Background(), "l1", "ext-1"))
	assert.Equal(t, 1, q.calls)
}
