// Package task ejecuta operaciones de red o de generación fuera del hilo
// que atiende la petición, con resultado tipado, cancelación y captura de panics.
package task

import (
	"context"
	"errors"
	"sync"

	"github.com/sourcegraph/conc/panics"
)

// ErrNotDone Result se llamó antes de que la tarea terminara.
var ErrNotDone = errors.New("la tarea aún no ha terminado")

// Task ejecución en segundo plano de una función que produce T.
type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	value T
	err   error
}

// Go lanza fn en una goroutine con un contexto derivado de parent.
// Un panic dentro de fn se convierte en el error de la tarea.
func Go[T any](parent context.Context, fn func(ctx context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[T]{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()

		var (
			v   T
			err error
			pc  panics.Catcher
		)
		pc.Try(func() { v, err = fn(ctx) })
		if r := pc.Recovered(); r != nil {
			err = r.AsError()
		}

		t.mu.Lock()
		t.value, t.err = v, err
		t.mu.Unlock()
	}()
	return t
}

// Done se cierra cuando la tarea termina (con o sin error).
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Cancel pide la cancelación; fn la observa a través de su contexto.
func (t *Task[T]) Cancel() { t.cancel() }

// Wait bloquea hasta que la tarea termina o ctx se cancela.
// Si ctx se cancela primero la tarea sigue corriendo.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result devuelve el resultado sin bloquear; ErrNotDone si sigue en curso.
func (t *Task[T]) Result() (T, error) {
	select {
	case <-t.done:
	default:
		var zero T
		return zero, ErrNotDone
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.err
}
