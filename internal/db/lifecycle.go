package db

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"board-api/internal/config"
)

// State representa el estado del ciclo de vida de la conexion.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Lifecycle es dueño del pool y de su maquina de estados. Reemplaza el
// clasico flag global "ya conectado" de los entornos serverless: cada
// request pide EnsureConnected y el primero que llega en frio paga el
// handshake; los siguientes reusan el pool verificado.
type Lifecycle struct {
	logger *zap.Logger
	cfg    *config.Config

	mu    sync.Mutex
	state State
	pool  *pgxpool.Pool

	// dial se puede reemplazar en tests; por defecto construye el pool
	// y verifica el handshake con un ping.
	dial func(ctx context.Context) (*pgxpool.Pool, error)
}

// NewLifecycle crea un manager en estado Disconnected.
func NewLifecycle(logger *zap.Logger, cfg *config.Config) *Lifecycle {
	l := &Lifecycle{
		logger: logger,
		cfg:    cfg,
		state:  StateDisconnected,
	}
	l.dial = func(ctx context.Context) (*pgxpool.Pool, error) {
		pool, err := NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}
	return l
}

// NewLifecycleWithDial crea un manager con el handshake reemplazado.
// Util en tests y en entornos que arman el pool por fuera.
func NewLifecycleWithDial(logger *zap.Logger, cfg *config.Config, dial func(context.Context) (*pgxpool.Pool, error)) *Lifecycle {
	l := NewLifecycle(logger, cfg)
	l.dial = dial
	return l
}

// EnsureConnected devuelve un pool verificado. Es idempotente: si ya hay
// conexion retorna de inmediato; si no, ejecuta el handshake sosteniendo
// el lock, asi los requests concurrentes de un arranque en frio esperan
// el mismo resultado en vez de abrir pools en paralelo. Un handshake
// fallido deja el estado en Disconnected para que el proximo request
// reintente; no hay loop de reintentos interno.
func (l *Lifecycle) EnsureConnected(ctx context.Context) (*pgxpool.Pool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateConnected {
		return l.pool, nil
	}

	l.state = StateConnecting
	pool, err := l.dial(ctx)
	if err != nil {
		l.state = StateDisconnected
		return nil, err
	}

	l.pool = pool
	l.state = StateConnected
	l.logger.Info("database connected")
	return pool, nil
}

// State devuelve el estado actual. Pensado para health checks y tests.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// MarkDisconnected fuerza el estado Disconnected ante una falla detectada,
// sin cerrar el pool en uso por requests en vuelo.
func (l *Lifecycle) MarkDisconnected() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = StateDisconnected
}

// ReleaseIdle cierra las conexiones ociosas del pool una vez enviada la
// respuesta, para que una invocacion futura no herede sockets muertos.
// Nunca falla el request: la respuesta ya salio.
func (l *Lifecycle) ReleaseIdle() {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("release idle connections panicked", zap.Any("cause", r))
		}
	}()

	l.mu.Lock()
	pool := l.pool
	state := l.state
	l.mu.Unlock()

	if state != StateConnected || pool == nil {
		return
	}
	pool.Reset()
}

// Close cierra el pool y vuelve a Disconnected. Teardown explicito.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pool != nil {
		l.pool.Close()
		l.pool = nil
	}
	l.state = StateDisconnected
}
