package optimization_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/optimization"
)

func TestZoneOf(t *testing.T) {
	cases := map[string]optimization.Zone{
		"A-12": optimization.ZoneA,
		"b-05": optimization.ZoneB,
		"C":    optimization.ZoneC,
		"":     optimization.ZoneUnknown,
		"X-01": optimization.Zone("X"),
	}
	for loc, want := range cases {
		got := optimization.ZoneOf(loc)
		assert.Equal(t, want, got, loc)
	}
	assert.False(t, optimization.ZoneOf("X-01").Valid())
	assert.False(t, optimization.ZoneUnknown.Valid())
}

func TestReconcile_SugerenciaYUbicacionCorrecta(t *testing.T) {
	cls := []optimization.Classification{
		{Product: product("p1", "A-12"), IdealZone: optimization.ZoneB, Velocity: 7, Reason: optimization.ReasonWarm},
		{Product: product("p2", "B-05"), IdealZone: optimization.ZoneB, Velocity: 5, Reason: optimization.ReasonWarm},
	}
	a := optimization.Reconcile(cls)

	require.Len(t, a.Suggestions, 1)
	s := a.Suggestions[0]
	assert.Equal(t, "p1", s.Product.ID)
	assert.Equal(t, optimization.ZoneA, s.CurrentZone)
	assert.Equal(t, optimization.ZoneB, s.IdealZone)
	assert.Equal(t, 7, s.VelocityScore)
	assert.Equal(t, 1, a.CorrectPlacements)
}

func TestReconcile_Eficiencia(t *testing.T) {
	cls := []optimization.Classification{
		{Product: product("p1", "A-1"), IdealZone: optimization.ZoneA},
		{Product: product("p2", "B-1"), IdealZone: optimization.ZoneB},
		{Product: product("p3", "C-1"), IdealZone: optimization.ZoneC},
		{Product: product("p4", "A-2"), IdealZone: optimization.ZoneC},
	}
	a := optimization.Reconcile(cls)
	assert.Equal(t, 3, a.CorrectPlacements)
	assert.Len(t, a.Suggestions, 1)
	assert.Equal(t, 75, a.Efficiency)
}

func TestReconcile_ZonaDesconocidaExcluida(t *testing.T) {
	cls := []optimization.Classification{
		{Product: product("p1", ""), IdealZone: optimization.ZoneA},
		{Product: product("p2", "Z-9"), IdealZone: optimization.ZoneC},
		{Product: product("p3", "A-1"), IdealZone: optimization.ZoneA},
	}
	a := optimization.Reconcile(cls)
	assert.Empty(t, a.Suggestions)
	assert.Equal(t, 1, a.CorrectPlacements)
	assert.Equal(t, 3, a.TotalProducts)
	assert.Equal(t, 33, a.Efficiency)
	assert.Equal(t, 2, a.CurrentZones.Other)
	assert.Equal(t, optimization.IdealZoneStats{A: 2, B: 0, C: 1}, a.IdealZones)
}

func TestEfficiency_SinProductos(t *testing.T) {
	assert.Equal(t, 0, optimization.Efficiency(0, 0))
	assert.Equal(t, 0, optimization.Reconcile(nil).Efficiency)
}

func TestAnalyze_Idempotente(t *testing.T) {
	products := []*entity.Product{
		product("p1", "C-01"), product("p2", "A-03"), product("p3", "B-07"),
		product("p4", "A-09"), product("p5", ""),
	}
	txs := []*entity.Transaction{export("p1", 40), export("p3", 10), export("p4", 2)}

	first := optimization.Analyze(products, txs)
	second := optimization.Analyze(products, txs)
	assert.Equal(t, first, second)
	require.NotEmpty(t, first.Suggestions)
	assert.Equal(t, "p1", first.Suggestions[0].Product.ID, "el más rápido primero")
}

func TestWithoutYFind(t *testing.T) {
	s := []optimization.MoveSuggestion{
		{Product: product("p1", "A-1")},
		{Product: product("p2", "B-1")},
	}
	rest := optimization.Without(s, "p1")
	require.Len(t, rest, 1)
	assert.Equal(t, "p2", rest[0].Product.ID)
	assert.Len(t, s, 2, "la lista original no se modifica")

	_, ok := optimization.Find(s, "p2")
	assert.True(t, ok)
	_, ok = optimization.Find(rest, "p1")
	assert.False(t, ok)
}
