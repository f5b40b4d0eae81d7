// Package memory implementa los puertos de persistencia en memoria (STORE_DRIVER=memory):
// desarrollo local, demos sin backend y pruebas.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/smartwms/internal/domain"
	"github.com/jhoicas/smartwms/internal/domain/entity"
	"github.com/jhoicas/smartwms/internal/domain/repository"
)

var (
	_ repository.ProductRepository     = (*Store)(nil)
	_ repository.TransactionRepository = (*TransactionStore)(nil)
	_ repository.MovementLogRepository = (*MovementStore)(nil)
	_ repository.StocktakeRepository   = (*StocktakeStore)(nil)
)

// Store catálogo de productos en memoria. Conserva el orden de inserción.
type Store struct {
	mu       sync.RWMutex
	order    []string
	products map[string]*entity.Product
}

// NewStore crea el catálogo con los productos dados (copiados).
func NewStore(products ...*entity.Product) *Store {
	s := &Store{products: make(map[string]*entity.Product)}
	for _, p := range products {
		s.Put(p)
	}
	return s
}

// Put inserta o reemplaza un producto.
func (s *Store) Put(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p.Clone()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if _, ok := s.products[c.ID]; !ok {
		s.order = append(s.order, c.ID)
	}
	s.products[c.ID] = c
}

// Get devuelve una copia del producto.
func (s *Store) Get(id string) (*entity.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p.Clone(), ok
}

// List implementa repository.ProductRepository.
func (s *Store) List(_ context.Context) ([]*entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.products[id].Clone())
	}
	return out, nil
}

// Update implementa repository.ProductRepository.
func (s *Store) Update(_ context.Context, p *entity.Product) (*entity.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	s.products[p.ID] = p.Clone()
	return p.Clone(), nil
}

// TransactionStore historial de transacciones en memoria.
type TransactionStore struct {
	mu  sync.RWMutex
	txs []*entity.Transaction
}

// NewTransactionStore crea el historial.
func NewTransactionStore(txs ...*entity.Transaction) *TransactionStore {
	return &TransactionStore{txs: append([]*entity.Transaction(nil), txs...)}
}

// Add agrega una transacción.
func (s *TransactionStore) Add(t *entity.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	s.txs = append(s.txs, t)
}

// List implementa repository.TransactionRepository.
func (s *TransactionStore) List(_ context.Context) ([]*entity.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Transaction, len(s.txs))
	for i, t := range s.txs {
		c := *t
		out[i] = &c
	}
	return out, nil
}

// MovementStore historial de traslados en memoria.
type MovementStore struct {
	mu   sync.RWMutex
	logs []*entity.MovementLog
}

// NewMovementStore crea el historial vacío.
func NewMovementStore() *MovementStore { return &MovementStore{} }

// Append implementa repository.MovementLogRepository.
func (s *MovementStore) Append(_ context.Context, e *entity.MovementLog) (*entity.MovementLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *e
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.logs = append(s.logs, &c)
	out := c
	return &out, nil
}

// List implementa repository.MovementLogRepository; más recientes primero.
func (s *MovementStore) List(_ context.Context) ([]*entity.MovementLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.MovementLog, len(s.logs))
	for i, l := range s.logs {
		c := *l
		out[i] = &c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// StocktakeStore sesiones finalizadas en memoria.
type StocktakeStore struct {
	mu       sync.RWMutex
	sessions []*entity.StocktakeSession
}

// NewStocktakeStore crea el almacén vacío.
func NewStocktakeStore() *StocktakeStore { return &StocktakeStore{} }

func cloneSession(s *entity.StocktakeSession) *entity.StocktakeSession {
	c := *s
	c.Items = append([]entity.StocktakeItem(nil), s.Items...)
	return &c
}

// Create implementa repository.StocktakeRepository.
func (s *StocktakeStore) Create(_ context.Context, session *entity.StocktakeSession) (*entity.StocktakeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.ID == session.ID {
			return nil, domain.ErrConflict
		}
	}
	c := cloneSession(session)
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.sessions = append(s.sessions, c)
	return cloneSession(c), nil
}

// List implementa repository.StocktakeRepository; más recientes primero.
func (s *StocktakeStore) List(_ context.Context) ([]*entity.StocktakeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.StocktakeSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = cloneSession(sess)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
