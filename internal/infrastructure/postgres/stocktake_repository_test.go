package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
)

type execCall struct {
	sql  string
	args []any
}

// recordingTx registra los Exec; failAt (1-based) devuelve failErr en esa llamada.
type recordingTx struct {
	pgx.Tx
	calls     []execCall
	failAt    int
	failErr   error
	committed bool
}

func (t *recordingTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.calls = append(t.calls, execCall{sql: sql, args: args})
	if t.failAt > 0 && len(t.calls) == t.failAt {
		return pgconn.CommandTag{}, t.failErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *recordingTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *recordingTx) Rollback(context.Context) error { return nil }

type beginner struct{ tx *recordingTx }

func (b beginner) Begin(context.Context) (pgx.Tx, error) { return b.tx, nil }

func finalizedSession() *entity.StocktakeSession {
	return &entity.StocktakeSession{
		ID:              "st-1",
		Date:            time.Date(2026, 10, 17, 18, 0, 0, 0, time.UTC),
		Status:          entity.StocktakeStatusCompleted,
		Notes:           "conteo semanal",
		TotalDifference: 3,
		Items: []entity.StocktakeItem{
			{ProductID: "p1", ProductName: "iPhone 15", SKU: "IP15", SystemQuantity: 10, ActualQuantity: 7, Difference: -3},
			{ProductID: "p2", ProductName: "Pixel 8", SKU: "PX8", SystemQuantity: 4, ActualQuantity: 4},
		},
	}
}

func TestStocktakeRepo_CreateCabeceraYLineasEnUnaTx(t *testing.T) {
	tx := &recordingTx{}
	repo := NewStocktakeRepository(nil, NewTxRunner(beginner{tx}))

	out, err := repo.Create(context.Background(), finalizedSession())
	require.NoError(t, err)
	assert.Equal(t, "st-1", out.ID)
	assert.True(t, tx.committed)

	require.Len(t, tx.calls, 3)
	assert.Contains(t, tx.calls[0].sql, "INSERT INTO stocktake_sessions")
	assert.Equal(t, []any{"st-1", out.Date, entity.StocktakeStatusCompleted, "conteo semanal", 3}, tx.calls[0].args)
	for i, c := range tx.calls[1:] {
		assert.Contains(t, c.sql, "INSERT INTO stocktake_items")
		assert.Equal(t, "st-1", c.args[0])
		assert.Equal(t, i, c.args[1], "número de línea en orden original")
	}
	assert.Equal(t, []any{"st-1", 0, "p1", "iPhone 15", "IP15", 10, 7, -3, ""}, tx.calls[1].args)
}

func TestStocktakeRepo_CreateAsignaID(t *testing.T) {
	tx := &recordingTx{}
	repo := NewStocktakeRepository(nil, NewTxRunner(beginner{tx}))
	s := finalizedSession()
	s.ID = ""

	out, err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Empty(t, s.ID, "la entrada no se modifica")
	assert.Equal(t, out.ID, tx.calls[0].args[0])
}

func TestStocktakeRepo_CreateIDDuplicado(t *testing.T) {
	tx := &recordingTx{failAt: 1, failErr: &pgconn.PgError{Code: "23505"}}
	repo := NewStocktakeRepository(nil, NewTxRunner(beginner{tx}))

	_, err := repo.Create(context.Background(), finalizedSession())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, tx.committed)
	assert.Len(t, tx.calls, 1, "sin líneas tras fallar la cabecera")
}

func TestStocktakeRepo_CreateFallaLineaNoConfirma(t *testing.T) {
	tx := &recordingTx{failAt: 3, failErr: errors.New("check constraint")}
	repo := NewStocktakeRepository(nil, NewTxRunner(beginner{tx}))

	_, err := repo.Create(context.Background(), finalizedSession())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "p2"))
	assert.False(t, tx.committed)
}
