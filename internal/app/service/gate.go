package service

import (
	"context"
	"sync"
)

// Gate es una barrera de un solo uso: el barrido no arranca hasta que el
// gateway avisa Ready.
type Gate struct {
	once sync.Once
	ch   chan struct{}
}

func NewGate() *Gate { return &Gate{ch: make(chan struct{})} }

// Open abre la barrera; llamarlo de nuevo no hace nada (Ready llega en cada reconexión).
func (g *Gate) Open() { g.once.Do(func() { close(g.ch) }) }

func (g *Gate) IsOpen() bool {
	select {
	case <-g.ch:
		return true
	default:
		return false
	}
}

func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
