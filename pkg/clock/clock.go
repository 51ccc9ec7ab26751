// Package clock abstrae la hora actual para que las reglas de vencimiento sean testeables.
package clock

import (
	"sync"
	"time"
)

// Clock devuelve el instante actual.
type Clock interface {
	Now() time.Time
}

// Real usa time.Now en la zona indicada (nil = UTC).
type Real struct {
	Location *time.Location
}

// Now implementa Clock.
func (c Real) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// Fake reloj manual para tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake crea un reloj detenido en t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now implementa Clock.
func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set mueve el reloj a t.
func (c *Fake) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Advance adelanta el reloj d.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
