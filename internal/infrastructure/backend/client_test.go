package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/pkg/jwt"
)

type fakeTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (f *fakeTokens) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeTokens) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.cleared++
	return nil
}

func newTestClient(t *testing.T, h http.Handler, tokens TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", tokens, zerolog.Nop(), Options{Timeout: 2 * time.Second})
}

func TestProductRepository_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[
			{"_id":"665f1","name":"iPhone 15","sku":"IP15","category":"Điện thoại","quantity":4,
			 "imeis":["3569"],"minStock":2,"price":999.5,"location":"A-01","lastUpdated":"2026-10-01T08:15:30.123456"},
			{"id":"p2","name":"Dell XPS","sku":"XPS","category":"Laptop","quantity":1,"minStock":0,
			 "price":0,"location":"","lastUpdated":null}
		]`)
	})
	c := newTestClient(t, mux, &fakeTokens{token: "tok-1"})

	ps, err := NewProductRepository(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "665f1", ps[0].ID)
	assert.Equal(t, []string{"3569"}, ps[0].Serials)
	assert.Equal(t, "999.5", ps[0].Price.String())
	assert.Equal(t, time.Date(2026, 10, 1, 8, 15, 30, 123456000, time.UTC), ps[0].LastUpdated)
	assert.Equal(t, "p2", ps[1].ID)
	assert.True(t, ps[1].LastUpdated.IsZero())
}

func TestProductRepository_Update(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "p1", r.PathValue("id"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "A-07", body["location"])
		assert.Equal(t, []any{}, body["imeis"])
		body["_id"] = "p1"
		_ = json.NewEncoder(w).Encode(body)
	})
	c := newTestClient(t, mux, nil)

	out, err := NewProductRepository(c).Update(context.Background(), &entity.Product{
		ID: "p1", Name: "X", SKU: "X", Location: "A-07", LastUpdated: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", out.ID)
	assert.Equal(t, "A-07", out.Location)
}

func TestTransactionRepository_List(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/transactions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":"t1","productId":"p1","productName":"iPhone","type":"XUAT","quantity":3,"date":"2026-09-30T10:00:00Z"}]`)
	})
	c := newTestClient(t, mux, nil)

	txs, err := NewTransactionRepository(c).List(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TransactionExport, txs[0].Type)
	assert.Equal(t, 3, txs[0].Quantity)
}

func TestMovementAndStocktake_Post(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/movements", func(w http.ResponseWriter, r *http.Request) {
		var m movementWire
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		assert.Equal(t, "C-10", m.FromLocation)
		m.MongoID = "m1"
		_ = json.NewEncoder(w).Encode(m)
	})
	mux.HandleFunc("POST /api/stocktakes", func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasID := raw["id"]
		assert.False(t, hasID, "el ID local no se envía")
		assert.Equal(t, "COMPLETED", raw["status"])
		raw["_id"] = "s-backend"
		_ = json.NewEncoder(w).Encode(raw)
	})
	c := newTestClient(t, mux, nil)

	m, err := NewMovementLogRepository(c).Append(context.Background(), &entity.MovementLog{ProductID: "p1", FromLocation: "C-10", ToLocation: "A-02"})
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)

	s, err := NewStocktakeRepository(c).Create(context.Background(), &entity.StocktakeSession{
		ID: "local", Status: entity.StocktakeStatusCompleted, TotalDifference: 2,
		Items: []entity.StocktakeItem{{ProductID: "p1", SystemQuantity: 3, ActualQuantity: 1, Difference: -2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "s-backend", s.ID)
	require.Len(t, s.Items, 1)
	assert.Equal(t, -2, s.Items[0].Difference)
}

func TestClient_401LimpiaSesion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stocktakes", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	tokens := &fakeTokens{token: "tok"}
	c := newTestClient(t, mux, tokens)

	_, err := NewStocktakeRepository(c).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 1, tokens.cleared)
	assert.Empty(t, tokens.Token())
}

func TestClient_TokenExpiradoNoLlegaAlBackend(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(http.ResponseWriter, *http.Request) { called = true })

	expired, err := jwt.Generate("k", "u1", "bodega", "staff", "smartwms", -time.Minute)
	require.NoError(t, err)
	tokens := &fakeTokens{token: expired}
	c := newTestClient(t, mux, tokens)

	_, err = NewProductRepository(c).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.False(t, called)
	assert.Equal(t, 1, tokens.cleared)
}

func TestClient_TokenDelContextoTienePrioridad(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/movements", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer del-request", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	})
	c := newTestClient(t, mux, &fakeTokens{token: "guardado"})

	logs, err := NewMovementLogRepository(c).List(WithToken(context.Background(), "del-request"))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestClient_ErrorHTTP(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "mongo caído", http.StatusInternalServerError)
	})
	mux.HandleFunc("PUT /api/products/{id}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no existe", http.StatusNotFound)
	})
	c := newTestClient(t, mux, nil)

	_, err := NewProductRepository(c).List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "mongo caído", apiErr.Body)
	assert.ErrorIs(t, err, domain.ErrExternal)

	_, err = NewProductRepository(c).Update(context.Background(), &entity.Product{ID: "zz"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_BackendInalcanzable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/api", nil, zerolog.Nop(), Options{Timeout: time.Second})
	_, err := NewTransactionRepository(c).List(context.Background())
	assert.ErrorIs(t, err, domain.ErrExternal)
}

func TestWireTime(t *testing.T) {
	cases := map[string]time.Time{
		`"2026-10-17T09:30:00Z"`:  time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		`"2026-10-17T09:30:00.5"`: time.Date(2026, 10, 17, 9, 30, 0, 500000000, time.UTC),
		`"2026-10-17 09:30:00"`:   time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC),
		`"2026-10-17"`:            time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
		`null`:                    {},
	}
	for in, want := range cases {
		var wt wireTime
		require.NoError(t, json.Unmarshal([]byte(in), &wt), in)
		assert.True(t, want.Equal(time.Time(wt)), in)
	}
	var wt wireTime
	assert.Error(t, json.Unmarshal([]byte(`"ayer"`), &wt))
}
