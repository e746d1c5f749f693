package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"planner-core/queue/domain"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxPerWindow = 15
	DefaultWindow       = time.Minute
)

// ErrTaskPanic é devolvido ao chamador quando a task entra em pânico.
var ErrTaskPanic = errors.New("queue: task panicked")

// Task é a unidade de trabalho opaca executada depois da admissão.
// O ctx recebido não é cancelado junto com o ctx do chamador.
type Task func(ctx context.Context) (any, error)

type result struct {
	val any
	err error
}

type call struct {
	label string
	task  Task
	ctx   context.Context
	done  chan result
}

// Limiter admite tasks uma de cada vez, em ordem de chegada, garantindo no máximo
// maxPerWindow admissões em qualquer intervalo de duração window.
//
// A fila e a janela só são alteradas pelo loop de drenagem. Existe no máximo um loop
// ativo por Limiter; enfileirar com o loop rodando não inicia outro.
type Limiter struct {
	clock clockwork.Clock
	stats domain.StatsStore
	log   logrus.FieldLogger

	// evita inundar o log com o aviso de janela esgotada
	waitLog rate.Sometimes

	mu       sync.Mutex
	win      domain.Window
	queue    []*call
	draining bool
}

type Option func(*Limiter)

func WithClock(c clockwork.Clock) Option {
	return func(l *Limiter) { l.clock = c }
}

func WithStats(s domain.StatsStore) Option {
	return func(l *Limiter) { l.stats = s }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(l *Limiter) { l.log = log }
}

// New cria o Limiter. maxPerWindow e window são fixos durante toda a vida dele;
// valores <= 0 caem nos padrões (15 por minuto).
func New(maxPerWindow int, window time.Duration, opts ...Option) *Limiter {
	if maxPerWindow <= 0 {
		maxPerWindow = DefaultMaxPerWindow
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		clock:   clockwork.NewRealClock(),
		log:     logrus.StandardLogger(),
		waitLog: rate.Sometimes{First: 1, Interval: 30 * time.Second},
		win:     domain.NewWindow(maxPerWindow, window),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.WithField("component", "queue")
	return l
}

func (l *Limiter) MaxPerWindow() int      { return l.win.Max }
func (l *Limiter) Window() time.Duration { return l.win.Duration }

// Snapshot é uma leitura (somente leitura) do estado da fila.
type Snapshot struct {
	Pending     int
	Admitted    int
	Remaining   int
	WindowStart time.Time
	Draining    bool
}

func (l *Limiter) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.win.Expire(l.clock.Now())
	return Snapshot{
		Pending:     len(l.queue),
		Admitted:    l.win.Admitted(),
		Remaining:   l.win.Remaining(),
		WindowStart: l.win.Start(),
		Draining:    l.draining,
	}
}

// Future é o resultado pendente de uma task enfileirada.
type Future[T any] struct {
	done <-chan result
	err  error
}

// Wait espera a task terminar.
//
// Se ctx encerrar antes, devolve ctx.Err(); a task continua na fila e roda até o fim,
// o resultado dela é descartado.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	var zero T
	if f.err != nil {
		return zero, f.err
	}

	select {
	case res := <-f.done:
		if res.err != nil {
			return zero, res.err
		}
		v, _ := res.val.(T)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Submit enfileira task e devolve um Future sem bloquear.
// Se ctx já estiver encerrado, nada é enfileirado e o Future carrega ctx.Err().
func Submit[T any](ctx context.Context, l *Limiter, label string, task func(context.Context) (T, error)) *Future[T] {
	if err := ctx.Err(); err != nil {
		return &Future[T]{err: err}
	}
	done := l.enqueue(ctx, label, func(c context.Context) (any, error) {
		return task(c)
	})
	return &Future[T]{done: done}
}

// Execute enfileira task e espera o resultado dela (ou o erro dela, sem alteração).
func Execute[T any](ctx context.Context, l *Limiter, label string, task func(context.Context) (T, error)) (T, error) {
	return Submit(ctx, l, label, task).Wait(ctx)
}

func (l *Limiter) enqueue(ctx context.Context, label string, task Task) <-chan result {
	c := &call{
		label: label,
		task:  task,
		ctx:   context.WithoutCancel(ctx),
		done:  make(chan result, 1),
	}

	l.mu.Lock()
	l.queue = append(l.queue, c)
	l.mu.Unlock()

	l.kick()
	return c.done
}

// kick inicia o loop de drenagem se ele não estiver rodando.
func (l *Limiter) kick() {
	l.mu.Lock()
	if l.draining || len(l.queue) == 0 {
		l.mu.Unlock()
		return
	}
	l.draining = true
	l.mu.Unlock()

	go l.drain()
}

func (l *Limiter) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.draining = false
			l.mu.Unlock()
			return
		}

		now := l.clock.Now()
		wait, ok := l.win.Admit(now)
		if !ok {
			pending := len(l.queue)
			l.mu.Unlock()

			l.onWait(now, wait, pending)
			<-l.clock.After(wait)
			continue
		}

		c := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		pending := len(l.queue)
		l.mu.Unlock()

		l.record(domain.StatsEvent{Kind: domain.EventAdmitted, Label: c.label, Pending: pending, At: now})
		c.done <- l.run(c)
	}
}

func (l *Limiter) run(c *call) (res result) {
	defer func() {
		if r := recover(); r != nil {
			l.log.WithField("label", c.label).Errorf("task panicked: %v", r)
			res = result{err: fmt.Errorf("%w: %v", ErrTaskPanic, r)}
		}
	}()

	v, err := c.task(c.ctx)
	return result{val: v, err: err}
}

func (l *Limiter) onWait(now time.Time, wait time.Duration, pending int) {
	l.waitLog.Do(func() {
		l.log.WithFields(logrus.Fields{
			"wait":    wait.String(),
			"pending": pending,
			"max":     l.win.Max,
			"window":  l.win.Duration.String(),
		}).Warn("rate limit reached, waiting for window")
	})
	l.record(domain.StatsEvent{Kind: domain.EventWaited, Wait: wait, Pending: pending, At: now})
}

func (l *Limiter) record(ev domain.StatsEvent) {
	if l.stats == nil {
		return
	}
	if err := l.stats.Record(context.Background(), ev); err != nil {
		l.log.WithError(err).Debug("stats record failed")
	}
}
