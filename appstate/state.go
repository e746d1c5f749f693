package appstate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"planner-core/assistant"
	"planner-core/identity"
	persistence "planner-core/persistence/application"
	"planner-core/persistence/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotReady: mutação pedida antes do boot terminar.
	ErrNotReady = persistence.ErrNotReady
	// ErrNotFound: o id não existe na lista.
	ErrNotFound = errors.New("appstate: not found")
	// ErrInvalid: a entrada não passou na validação.
	ErrInvalid = errors.New("appstate: invalid input")
	// ErrForbidden: a identidade não tem permissão para a operação.
	ErrForbidden = errors.New("appstate: forbidden")
	// ErrNoAssistant: o serviço generativo não foi configurado.
	ErrNoAssistant = errors.New("appstate: assistant not configured")
)

// FallbackReply é a mensagem mostrada quando a chamada ao assistente falha.
const FallbackReply = "Sinto muito, tivemos uma breve interrupção técnica."

// Assistant é o que State usa do cliente do serviço generativo.
type Assistant interface {
	ChatStream(ctx context.Context, req assistant.ChatRequest, onChunk func(cumulative string)) (assistant.Reply, error)
	SearchSuppliers(ctx context.Context, query string) (assistant.Reply, error)
	GenerateTasks(ctx context.Context, goal string) ([]assistant.TaskSuggestion, error)
	GenerateImage(ctx context.Context, prompt string, ratio assistant.AspectRatio) (string, error)
}

// State é a raiz de agregação. É seguro para uso concorrente.
type State struct {
	store    *persistence.Orchestrator
	ai       Assistant
	ids      *identity.Stack
	validate *validator.Validate
	clock    clockwork.Clock
	newID    func() string
	log      logrus.FieldLogger
	cat      catalog

	// ready só vira true depois que os valores lidos no boot estão em memória.
	ready atomic.Bool

	mu       sync.RWMutex
	users    []identity.Profile
	theme    Theme
	tasks    []Task
	guests   []Guest
	messages []Message
	assets   []GeneratedAsset
	invoices []Invoice
	clients  []ClientRecord
}

type Option func(*State)

func WithAssistant(a Assistant) Option {
	return func(s *State) { s.ai = a }
}

func WithSeed(seed Seed) Option {
	return func(s *State) { s.cat = newCatalog(seed) }
}

func WithClock(c clockwork.Clock) Option {
	return func(s *State) { s.clock = c }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *State) { s.newID = fn }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *State) { s.log = log }
}

func New(store *persistence.Orchestrator, opts ...Option) *State {
	s := &State{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		clock:    clockwork.NewRealClock(),
		newID:    uuid.NewString,
		log:      logrus.StandardLogger(),
		cat:      newCatalog(DefaultSeed()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = identity.NewStack(s.cat.user.DefaultValue())
	s.log = s.log.WithField("component", "appstate")
	return s
}

// Boot carrega todos os registros. Enquanto ele não terminar a UI deve mostrar o
// placeholder de carregamento, nunca os padrões.
func (s *State) Boot(ctx context.Context) error {
	var (
		user     identity.Profile
		users    []identity.Profile
		original *identity.Profile
		theme    Theme
		tasks    []Task
		guests   []Guest
		messages []Message
		assets   []GeneratedAsset
		invoices []Invoice
		clients  []ClientRecord
	)

	err := s.store.Bootstrap(ctx,
		persistence.Bind(s.cat.user, &user),
		persistence.Bind(s.cat.users, &users),
		persistence.Bind(s.cat.originalAdmin, &original),
		persistence.Bind(s.cat.theme, &theme),
		persistence.Bind(s.cat.tasks, &tasks),
		persistence.Bind(s.cat.guests, &guests),
		persistence.Bind(s.cat.messages, &messages),
		persistence.Bind(s.cat.assets, &assets),
		persistence.Bind(s.cat.invoices, &invoices),
		persistence.Bind(s.cat.clients, &clients),
	)
	if err != nil {
		return err
	}

	if !theme.Valid() {
		theme = ThemeDark
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids.Load(identity.Snapshot{Active: user, Saved: original})
	s.users, s.theme = users, theme
	s.tasks, s.guests = tasks, guests
	s.messages, s.assets = messages, assets
	s.invoices, s.clients = invoices, clients
	s.ready.Store(true)
	return nil
}

// Ready indica se o boot terminou e o estado em memória já reflete o armazenamento.
func (s *State) Ready() bool { return s.ready.Load() }

// Flush espera as gravações assíncronas pendentes.
func (s *State) Flush(ctx context.Context) error { return s.store.Flush(ctx) }

func (s *State) checkReady() error {
	if !s.ready.Load() {
		return ErrNotReady
	}
	return nil
}

func (s *State) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// save grava rec com uma cópia de v. Deve ser chamado com s.mu travado para que a
// ordem das gravações siga a ordem das mutações.
func save[T any](s *State, rec domain.Record[[]T], v []T) error {
	return persistence.Save(s.store, rec, slices.Clone(v))
}

func saveValue[T any](s *State, rec domain.Record[T], v T) error {
	return persistence.Save(s.store, rec, v)
}

func indexByID[T any](list []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(list, func(v T) bool { return idOf(v) == id })
}
