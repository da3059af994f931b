package task

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed el tracker ya no acepta ejecuciones nuevas (apagado del servidor).
var ErrClosed = errors.New("le service s'arrête, réessayez plus tard")

// DefaultRetention tiempo que una acción terminada sigue consultable.
const DefaultRetention = 30 * time.Minute

// Tracker agrupa acciones por clave (tipo de documento + id). Acciones de
// claves distintas corren en paralelo sin coordinación entre ellas.
// Las acciones terminadas hace más de Retention se olvidan al lanzar otra.
type Tracker[T any] struct {
	Retention time.Duration

	mu       sync.Mutex
	actions  map[string]*Action[T]
	closed   bool
	inflight sync.WaitGroup
}

// NewTracker crea un tracker vacío.
func NewTracker[T any]() *Tracker[T] {
	return &Tracker[T]{
		Retention: DefaultRetention,
		actions:   make(map[string]*Action[T]),
	}
}

// Start ver Action.Start. Devuelve ErrClosed tras Close.
// El lanzamiento ocurre con el lock tomado: la poda no puede retirar una
// acción entre su búsqueda y su arranque.
func (tr *Tracker[T]) Start(base context.Context, key string, fn func(ctx context.Context) (T, error)) (*Task[T], error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.closed {
		return nil, ErrClosed
	}
	a, ok := tr.actions[key]
	if !ok {
		tr.pruneLocked()
		a = NewAction[T]()
		tr.actions[key] = a
	}
	t, err := a.Start(base, fn)
	if err != nil {
		return nil, err
	}
	tr.inflight.Add(1)
	go func() {
		<-t.Done()
		tr.inflight.Done()
	}()
	return t, nil
}

func (tr *Tracker[T]) pruneLocked() {
	cutoff := time.Now().Add(-tr.Retention)
	for k, a := range tr.actions {
		snap := a.Snapshot()
		if snap.State == StateDone && !snap.FinishedAt.After(cutoff) {
			delete(tr.actions, k)
		}
	}
}

// Snapshot estado de la acción de key; idle si no existe.
func (tr *Tracker[T]) Snapshot(key string) Snapshot[T] {
	tr.mu.Lock()
	a, ok := tr.actions[key]
	tr.mu.Unlock()
	if !ok {
		return Snapshot[T]{State: StateIdle}
	}
	return a.Snapshot()
}

// Len número de acciones retenidas.
func (tr *Tracker[T]) Len() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.actions)
}

// Close deja de aceptar ejecuciones; las que están en curso siguen.
func (tr *Tracker[T]) Close() {
	tr.mu.Lock()
	tr.closed = true
	tr.mu.Unlock()
}

// Wait espera a que terminen todas las ejecuciones en curso o a que ctx expire.
// No cancela nada: si ctx expira las ejecuciones siguen corriendo.
func (tr *Tracker[T]) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		tr.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
