package stocktake_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/stocktake"
)

var t0 = time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

func catalog() []*entity.Product {
	return []*entity.Product{
		{ID: "p1", Name: "iPhone 15", SKU: "IP15-BLK", Category: "Điện thoại", Quantity: 50},
		{ID: "p2", Name: "MacBook Air", SKU: "MBA-M3", Category: "Laptop", Quantity: 10},
		{ID: "p3", Name: "Galaxy S24", SKU: "GS24", Category: "Điện thoại", Quantity: 0},
	}
}

func TestParseMode(t *testing.T) {
	m, err := stocktake.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, stocktake.ModeNormal, m)

	m, err = stocktake.ParseMode(" Blind ")
	require.NoError(t, err)
	assert.Equal(t, stocktake.ModeBlind, m)

	_, err = stocktake.ParseMode("otro")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStart_ModoNormal(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeNormal, catalog(), t0)
	assert.Equal(t, entity.StocktakeStatusDraft, s.Status())
	for _, it := range s.Items() {
		assert.Equal(t, it.SystemQuantity, it.ActualQuantity)
		assert.Zero(t, it.Difference)
	}
	assert.Zero(t, s.TotalDifference())
}

func TestStart_ModoCiego(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeBlind, catalog(), t0)
	it, ok := s.Item("p1")
	require.True(t, ok)
	assert.Equal(t, 50, it.SystemQuantity)
	assert.Equal(t, 0, it.ActualQuantity)
	assert.Equal(t, -50, it.Difference)
	assert.Equal(t, 60, s.TotalDifference())
}

func TestAdjust(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeNormal, catalog(), t0)

	it, ok, err := s.Adjust("p2", 12)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, it.ActualQuantity)
	assert.Equal(t, 2, it.Difference)

	it, _, _ = s.Adjust("p2", -5)
	assert.Equal(t, 0, it.ActualQuantity, "no se permiten cantidades negativas")
	assert.Equal(t, -10, it.Difference)

	_, ok, err = s.Adjust("nope", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncrementByScan(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeBlind, catalog(), t0)

	it, ok, err := s.IncrementByScan("  ip15-blk ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, it.ActualQuantity)
	assert.Equal(t, -49, it.Difference)
	assert.Equal(t, "p1", s.LastScannedID())

	it, ok, _ = s.IncrementByScan("p3")
	require.True(t, ok, "respaldo por ID de producto")
	assert.Equal(t, 1, it.Difference)

	before := s.Items()
	_, ok, _ = s.IncrementByScan("desconocido")
	assert.False(t, ok)
	assert.Equal(t, before, s.Items())
}

func TestFilter(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeNormal, catalog(), t0)
	assert.Len(t, s.Filter("", "all"), 3)
	assert.Len(t, s.Filter("galaxy", ""), 1)
	assert.Len(t, s.Filter("mba", ""), 1)
	assert.Len(t, s.Filter("", "Điện thoại"), 2)
	assert.Empty(t, s.Filter("macbook", "Điện thoại"))
}

func TestFinalize_VarianzaYConfirmacion(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeNormal, catalog(), t0)
	_, _, _ = s.Adjust("p1", 52)
	_, _, _ = s.Adjust("p2", 9)

	_, err := s.Finalize("", false, t0)
	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)

	require.NoError(t, s.SetNotes("turno mañana"))
	rec, err := s.Finalize("", true, t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, rec.TotalDifference)
	assert.Equal(t, entity.StocktakeStatusCompleted, rec.Status)
	assert.Equal(t, "turno mañana", rec.Notes)
	assert.Equal(t, "s1", rec.ID)
	assert.Equal(t, entity.StocktakeStatusDraft, s.Status(), "Finalize no congela la sesión")

	// El registro es una copia independiente.
	_, _, _ = s.Adjust("p1", 0)
	assert.Equal(t, 52, rec.Items[0].ActualQuantity)

	s.MarkCompleted()
	_, _, err = s.Adjust("p1", 1)
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
	_, err = s.Finalize("", true, t0)
	assert.ErrorIs(t, err, domain.ErrSessionCompleted)
}

func TestFinalize_SinDiferenciasNoPideConfirmacion(t *testing.T) {
	s := stocktake.Start("s1", stocktake.ModeNormal, catalog(), t0)
	rec, err := s.Finalize("ok", false, t0)
	require.NoError(t, err)
	assert.Zero(t, rec.TotalDifference)
}

func TestTotalDifference(t *testing.T) {
	items := []entity.StocktakeItem{{Difference: 2}, {Difference: -1}, {Difference: 0}}
	assert.Equal(t, 3, stocktake.TotalDifference(items))
}

// La diferencia siempre es actual - sistema, sin importar el orden de las operaciones.
func TestSession_InvarianteDiferencia(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mode := rapid.SampledFrom([]stocktake.Mode{stocktake.ModeNormal, stocktake.ModeBlind}).Draw(t, "mode")
		s := stocktake.Start("s", mode, catalog(), t0)
		ops := rapid.IntRange(0, 50).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			id := rapid.SampledFrom([]string{"p1", "p2", "p3", "zz"}).Draw(t, "id")
			if rapid.Bool().Draw(t, "scan") {
				_, _, _ = s.IncrementByScan(id)
			} else {
				_, _, _ = s.Adjust(id, rapid.IntRange(-20, 200).Draw(t, "qty"))
			}
		}
		for _, it := range s.Items() {
			if it.Difference != it.ActualQuantity-it.SystemQuantity {
				t.Fatalf("invariante roto para %s", it.ProductID)
			}
			if it.ActualQuantity < 0 {
				t.Fatalf("cantidad negativa para %s", it.ProductID)
			}
		}
	})
}
