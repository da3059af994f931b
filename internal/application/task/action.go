package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrInFlight la acción ya tiene una ejecución en curso.
var ErrInFlight = errors.New("une opération est déjà en cours pour ce document")

// State estado observable de una acción.
type State string

const (
	StateIdle     State = "idle"
	StateInFlight State = "in_flight"
	StateDone     State = "done"
)

// Snapshot vista de una acción para el cliente.
type Snapshot[T any] struct {
	State      State
	Value      T
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Action una operación repetible con como máximo una ejecución en curso.
// Equivale al botón que se deshabilita mientras la certificación corre.
type Action[T any] struct {
	gate *semaphore.Weighted

	mu       sync.Mutex
	current  *Task[T]
	last     Snapshot[T]
	finished bool
}

// NewAction crea una acción en estado idle.
func NewAction[T any]() *Action[T] {
	return &Action[T]{gate: semaphore.NewWeighted(1)}
}

// Start lanza fn si no hay otra ejecución en curso; si la hay devuelve ErrInFlight
// sin ejecutar nada. La ejecución no depende del contexto de la petición: usa base.
func (a *Action[T]) Start(base context.Context, fn func(ctx context.Context) (T, error)) (*Task[T], error) {
	if !a.gate.TryAcquire(1) {
		return nil, ErrInFlight
	}

	a.mu.Lock()
	t := Go(base, fn)
	a.current = t
	a.last = Snapshot[T]{State: StateInFlight, StartedAt: time.Now()}
	a.mu.Unlock()

	go func() {
		<-t.Done()
		v, err := t.Result()

		a.mu.Lock()
		a.last.State = StateDone
		a.last.Value, a.last.Err = v, err
		a.last.FinishedAt = time.Now()
		a.current = nil
		a.finished = true
		a.mu.Unlock()

		a.gate.Release(1)
	}()
	return t, nil
}

// Snapshot estado actual; idle si nunca se ejecutó.
func (a *Action[T]) Snapshot() Snapshot[T] {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil && !a.finished {
		return Snapshot[T]{State: StateIdle}
	}
	return a.last
}
