// Package notify mantiene las notificaciones transitorias (toasts) que la interfaz muestra
// tras operaciones contra el backend: éxito o fallo, con expiración automática.
package notify

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// Kind tipo de notificación.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL duración visible de una notificación.
const DefaultTTL = 3 * time.Second

// Notifier puerto usado por los casos de uso para avisar al usuario.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Notification aviso visible.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Center implementación de Notifier sobre go-cache; cada aviso expira tras ttl.
type Center struct {
	store *cache.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

var _ Notifier = (*Center)(nil)

// NewCenter construye el centro de notificaciones. ttl <= 0 usa DefaultTTL.
func NewCenter(ttl time.Duration, log zerolog.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		store: cache.New(ttl, 2*ttl),
		ttl:   ttl,
		log:   log,
	}
}

// Success publica un aviso de éxito.
func (c *Center) Success(message string) { c.push(KindSuccess, message) }

// Error publica un aviso de fallo.
func (c *Center) Error(message string) { c.push(KindError, message) }

func (c *Center) push(kind Kind, message string) {
	n := Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	c.store.Set(n.ID, n, c.ttl)
	c.log.Debug().Str("type", string(kind)).Str("message", message).Msg("notificación publicada")
}

// Active devuelve los avisos no expirados, del más antiguo al más reciente.
func (c *Center) Active() []Notification {
	items := c.store.Items()
	out := make([]Notification, 0, len(items))
	for _, it := range items {
		if n, ok := it.Object.(Notification); ok {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Dismiss elimina un aviso antes de que expire.
func (c *Center) Dismiss(id string) {
	c.store.Delete(id)
}
