package apptest

import (
	"context"
	"sync"

	"github.com/jhoicas/Licencia-api/internal/application/ports"
)

// Cache implementación en memoria de ports.LicenceCache, con generaciones por clave.
type Cache struct {
	mu          sync.Mutex
	entries     map[int]ports.LicenceSnapshot
	gens        map[int]int64
	Hits        int
	Invalidated []int
	// SkippedSets cuenta las escrituras descartadas por una invalidación intermedia.
	SkippedSets int
}

// NewCache crea una caché vacía.
func NewCache() *Cache {
	return &Cache{entries: map[int]ports.LicenceSnapshot{}, gens: map[int]int64{}}
}

func (c *Cache) Get(_ context.Context, publicID int) (*ports.LicenceSnapshot, int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.gens[publicID]
	snap, ok := c.entries[publicID]
	if !ok {
		return nil, gen, nil
	}
	c.Hits++
	return &snap, gen, nil
}

func (c *Cache) Set(_ context.Context, publicID int, gen int64, snap ports.LicenceSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[publicID] != gen {
		c.SkippedSets++
		return nil
	}
	c.entries[publicID] = snap
	return nil
}

func (c *Cache) Invalidate(_ context.Context, publicID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, publicID)
	c.gens[publicID]++
	c.Invalidated = append(c.Invalidated, publicID)
	return nil
}

// Metrics registra las llamadas en contadores simples.
type Metrics struct {
	mu       sync.Mutex
	Checks   map[string]int
	Applied  map[string]int
	Payments map[string]int
	Callback map[string]int
}

// NewMetrics crea el registro vacío.
func NewMetrics() *Metrics {
	return &Metrics{
		Checks:   map[string]int{},
		Applied:  map[string]int{},
		Payments: map[string]int{},
		Callback: map[string]int{},
	}
}

func (m *Metrics) LicenceChecked(status string) {
	m.mu.Lock()
	m.Checks[status]++
	m.mu.Unlock()
}

func (m *Metrics) PackageApplied(source string, _ bool) {
	m.mu.Lock()
	m.Applied[source]++
	m.mu.Unlock()
}

func (m *Metrics) PaymentInitiated(result string) {
	m.mu.Lock()
	m.Payments[result]++
	m.mu.Unlock()
}

func (m *Metrics) CallbackHandled(result string) {
	m.mu.Lock()
	m.Callback[result]++
	m.mu.Unlock()
}
