// Package session reemplaza el almacenamiento global del navegador (token y preferencias)
// por un contexto explícito e inyectado con ciclo Load/Save.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/spf13/viper"
)

const (
	keyToken    = "token"
	keyUsername = "username"
	keySidebar  = "sidebar_items"
)

// Context estado de sesión del operador. Seguro para uso concurrente.
type Context struct {
	mu       sync.RWMutex
	path     string
	token    string
	username string
	sidebar  []string
}

// New crea un contexto persistido en path (YAML). path vacío = solo en memoria.
func New(path string) *Context {
	return &Context{path: path}
}

// Load lee el archivo de sesión; si no existe deja el contexto vacío.
func (c *Context) Load() error {
	if c.path == "" {
		return nil
	}
	if _, err := os.Stat(c.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	v := viper.New()
	v.SetConfigFile(c.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("leer sesión: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = v.GetString(keyToken)
	c.username = v.GetString(keyUsername)
	c.sidebar = v.GetStringSlice(keySidebar)
	return nil
}

// Save escribe el estado actual en el archivo de sesión.
func (c *Context) Save() error {
	if c.path == "" {
		return nil
	}
	c.mu.RLock()
	v := viper.New()
	v.SetConfigType("yaml")
	v.Set(keyToken, c.token)
	v.Set(keyUsername, c.username)
	v.Set(keySidebar, c.sidebar)
	c.mu.RUnlock()
	if err := v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("guardar sesión: %w", err)
	}
	return nil
}

// Token bearer actual (vacío si no hay sesión).
func (c *Context) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Username del operador autenticado.
func (c *Context) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

// SignIn fija token y usuario y persiste.
func (c *Context) SignIn(token, username string) error {
	c.mu.Lock()
	c.token = token
	c.username = username
	c.mu.Unlock()
	return c.Save()
}

// Clear cierra la sesión (logout global tras un 401) y persiste.
func (c *Context) Clear() error {
	c.mu.Lock()
	c.token = ""
	c.username = ""
	c.mu.Unlock()
	return c.Save()
}

// SidebarItems preferencias de menú visibles.
func (c *Context) SidebarItems() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.sidebar...)
}

// SetSidebarItems actualiza las preferencias de menú y persiste.
func (c *Context) SetSidebarItems(items []string) error {
	c.mu.Lock()
	c.sidebar = append([]string(nil), items...)
	c.mu.Unlock()
	return c.Save()
}
