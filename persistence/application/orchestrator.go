package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"planner-core/internal/metrics"
	"planner-core/persistence/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotReady: escrita pedida antes do boot terminar. Nada foi gravado.
	ErrNotReady = errors.New("persistence: bootstrap not finished")
	// ErrAlreadyBootstrapped: Bootstrap só pode rodar uma vez.
	ErrAlreadyBootstrapped = errors.New("persistence: already bootstrapped")
	// ErrTierConflict: a mesma chave foi usada com dois tiers diferentes.
	ErrTierConflict = errors.New("persistence: key assigned to another tier")
)

const defaultWriteTimeout = 10 * time.Second

// Orchestrator sequencia o boot e todas as escritas seguintes.
type Orchestrator struct {
	sync  domain.SyncStore
	async domain.AsyncStore
	log   logrus.FieldLogger

	pool           domain.SlotPool
	acquireTimeout time.Duration
	writeTimeout   time.Duration
	writer         *keyedSerial

	mu      sync.Mutex
	tiers   map[string]domain.Tier
	booting bool
	ready   chan struct{}
}

type Option func(*Orchestrator)

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithWriteSlots limita quantas gravações assíncronas rodam ao mesmo tempo (entre chaves).
// Com acquireTimeout > 0 uma gravação que esperar mais que isso por uma vaga é
// descartada; com 0 ela espera o quanto for preciso.
func WithWriteSlots(pool domain.SlotPool, acquireTimeout time.Duration) Option {
	return func(o *Orchestrator) { o.pool, o.acquireTimeout = pool, acquireTimeout }
}

// WithWriteTimeout limita a duração de cada gravação assíncrona, contada a partir
// do momento em que ela obtém a vaga.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.writeTimeout = d }
}

func New(syncStore domain.SyncStore, asyncStore domain.AsyncStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sync:         syncStore,
		async:        asyncStore,
		log:          logrus.StandardLogger(),
		writeTimeout: defaultWriteTimeout,
		writer:       newKeyedSerial(),
		tiers:        make(map[string]domain.Tier),
		ready:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.writeTimeout <= 0 {
		o.writeTimeout = defaultWriteTimeout
	}
	o.log = o.log.WithField("component", "persistence")
	return o
}

// Ready indica se o boot terminou (todas as leituras resolvidas).
func (o *Orchestrator) Ready() bool {
	select {
	case <-o.ready:
		return true
	default:
		return false
	}
}

// WaitReady bloqueia até o boot terminar ou ctx encerrar.
func (o *Orchestrator) WaitReady(ctx context.Context) error {
	select {
	case <-o.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// claim registra o tier da chave; uma chave nunca muda de tier.
func (o *Orchestrator) claim(key string, tier domain.Tier) error {
	if tier != domain.TierSync && tier != domain.TierAsync {
		return fmt.Errorf("%s: invalid tier %d", key, tier)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if cur, ok := o.tiers[key]; ok && cur != tier {
		return fmt.Errorf("%w: %s is %s, not %s", ErrTierConflict, key, cur, tier)
	}
	o.tiers[key] = tier
	return nil
}

// Binding liga um registro tipado a um destino em memória durante o boot.
type Binding interface {
	key() string
	tier() domain.Tier
	decode(raw []byte) error
	fallback()
}

type binding[T any] struct {
	rec domain.Record[T]
	dst *T
}

// Bind cria o vínculo entre rec e dst. dst recebe o valor lido ou o padrão do registro.
func Bind[T any](rec domain.Record[T], dst *T) Binding {
	return binding[T]{rec: rec, dst: dst}
}

func (b binding[T]) key() string       { return b.rec.Key }
func (b binding[T]) tier() domain.Tier { return b.rec.Tier }
func (b binding[T]) fallback()         { *b.dst = b.rec.DefaultValue() }

func (b binding[T]) decode(raw []byte) error {
	v, err := b.rec.Decode(raw)
	if err != nil {
		return err
	}
	*b.dst = v
	return nil
}

// Bootstrap lê todas as chaves: primeiro o tier síncrono, na ordem dada, depois o
// assíncrono em paralelo. Só depois que todas as leituras assíncronas resolverem a
// escrita é liberada.
//
// Falha de leitura de uma chave vira o padrão dela (com log) e não aborta o boot.
// Se ctx encerrar no meio, o boot não é concluído e o erro de ctx é devolvido.
func (o *Orchestrator) Bootstrap(ctx context.Context, bindings ...Binding) error {
	o.mu.Lock()
	if o.booting {
		o.mu.Unlock()
		return ErrAlreadyBootstrapped
	}
	o.booting = true
	o.mu.Unlock()

	for _, b := range bindings {
		if err := o.claim(b.key(), b.tier()); err != nil {
			o.abortBoot()
			return err
		}
	}

	var asyncs []Binding
	for _, b := range bindings {
		if b.tier() == domain.TierAsync {
			asyncs = append(asyncs, b)
			continue
		}
		o.loadSync(b)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, b := range asyncs {
		g.Go(func() error {
			o.loadAsync(gctx, b)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		o.abortBoot()
		return fmt.Errorf("bootstrap interrupted: %w", err)
	}

	close(o.ready)
	o.log.WithFields(logrus.Fields{
		"sync":  len(bindings) - len(asyncs),
		"async": len(asyncs),
	}).Info("bootstrap finished")
	return nil
}

func (o *Orchestrator) abortBoot() {
	o.mu.Lock()
	o.booting = false
	o.mu.Unlock()
}

func (o *Orchestrator) loadSync(b Binding) {
	raw, err := o.sync.Get(b.key())
	o.apply(b, raw, err)
}

func (o *Orchestrator) loadAsync(ctx context.Context, b Binding) {
	raw, err := o.async.Load(ctx, b.key())
	o.apply(b, raw, err)
}

func (o *Orchestrator) apply(b Binding, raw []byte, err error) {
	log := o.log.WithFields(logrus.Fields{"key": b.key(), "tier": b.tier().String()})

	if errors.Is(err, domain.ErrNotFound) {
		log.Debug("record not found, using default")
		b.fallback()
		return
	}
	if err == nil {
		err = b.decode(raw)
	}
	if err != nil {
		metrics.RecordStorageFailure(b.tier().String(), "read")
		log.WithError(err).Warn("record read failed, using default")
		b.fallback()
	}
}

// Save grava o valor inteiro de rec no tier dele.
//
// Antes do boot terminar devolve ErrNotReady e não grava nada. No tier síncrono a
// gravação é imediata; no assíncrono ela é enfileirada (em série por chave) e Save
// retorna sem esperar. Falha de armazenamento é só logada: o estado em memória do
// chamador não é desfeito.
func Save[T any](o *Orchestrator, rec domain.Record[T], v T) error {
	if !o.Ready() {
		return ErrNotReady
	}
	if err := o.claim(rec.Key, rec.Tier); err != nil {
		return err
	}

	raw, err := rec.Encode(v)
	if err != nil {
		return err
	}

	metrics.RecordStorageWrite(rec.Tier.String())
	if rec.Tier == domain.TierSync {
		o.writeSync(rec.Key, raw)
		return nil
	}
	o.writeAsync(rec.Key, raw)
	return nil
}

func (o *Orchestrator) writeSync(key string, raw []byte) {
	if err := o.sync.Put(key, raw); err != nil {
		metrics.RecordStorageFailure(domain.TierSync.String(), "write")
		o.log.WithError(err).WithField("key", key).Error("sync write failed")
	}
}

func (o *Orchestrator) writeAsync(key string, raw []byte) {
	o.writer.enqueue(key, func() {
		log := o.log.WithField("key", key)

		release, ok := o.acquireSlot()
		if !ok {
			metrics.RecordStorageFailure(domain.TierAsync.String(), "write")
			log.WithField("waited", o.acquireTimeout).Error("async write dropped, no write slot available")
			return
		}
		defer release()

		// o prazo da gravação não inclui a fila por vaga
		ctx, cancel := context.WithTimeout(context.Background(), o.writeTimeout)
		defer cancel()

		if err := o.async.Save(ctx, key, raw); err != nil {
			metrics.RecordStorageFailure(domain.TierAsync.String(), "write")
			log.WithError(err).Error("async write failed")
		}
	})
}

func (o *Orchestrator) acquireSlot() (release func(), ok bool) {
	if o.pool == nil {
		return func() {}, true
	}
	ctx := context.Background()
	if o.acquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.acquireTimeout)
		defer cancel()
	}
	return o.pool.Acquire(ctx)
}

// Flush espera todas as gravações assíncronas já enfileiradas.
func (o *Orchestrator) Flush(ctx context.Context) error {
	return o.writer.wait(ctx)
}
