package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Tier identifica o armazenamento responsável por um registro.
type Tier int

const (
	TierSync Tier = iota + 1
	TierAsync
)

func (t Tier) String() string {
	switch t {
	case TierSync:
		return "sync"
	case TierAsync:
		return "async"
	default:
		return "unknown"
	}
}

var (
	// ErrUnknownVersion: o valor gravado tem versão mais nova que a conhecida pelo código.
	ErrUnknownVersion = errors.New("persistence: stored record has unknown schema version")
	// ErrMalformed: o valor gravado não é um envelope válido.
	ErrMalformed = errors.New("persistence: malformed record")
)

// Record descreve um registro tipado: chave, tier, versão de schema e valor padrão.
//
// Cada chave pertence a exatamente um tier.
type Record[T any] struct {
	Key     string
	Tier    Tier
	Version int

	// Default produz o valor usado quando a chave não existe ou a leitura falha.
	Default func() T

	// Migrate converte o payload de uma versão anterior para a atual. Opcional:
	// sem ele, payloads antigos são decodificados como estão.
	Migrate func(from int, data json.RawMessage) (json.RawMessage, error)
}

// DefaultValue devolve o padrão do registro (ou o zero de T).
func (r Record[T]) DefaultValue() T {
	if r.Default == nil {
		var zero T
		return zero
	}
	return r.Default()
}

func (r Record[T]) version() int {
	if r.Version <= 0 {
		return 1
	}
	return r.Version
}

type envelope struct {
	V    int             `json:"v"`
	Data json.RawMessage `json:"data"`
}

// Encode serializa o valor inteiro dentro do envelope versionado.
func (r Record[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", r.Key, err)
	}
	return json.Marshal(envelope{V: r.version(), Data: data})
}

// Decode lê um envelope e devolve o valor tipado.
func (r Record[T]) Decode(raw []byte) (T, error) {
	var zero T

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrMalformed, r.Key, err)
	}
	if env.V <= 0 || len(env.Data) == 0 {
		return zero, fmt.Errorf("%w: %s: missing version or data", ErrMalformed, r.Key)
	}
	if env.V > r.version() {
		return zero, fmt.Errorf("%w: %s: v%d > v%d", ErrUnknownVersion, r.Key, env.V, r.version())
	}

	data := env.Data
	if env.V < r.version() && r.Migrate != nil {
		migrated, err := r.Migrate(env.V, data)
		if err != nil {
			return zero, fmt.Errorf("migrate %s from v%d: %w", r.Key, env.V, err)
		}
		data = migrated
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrMalformed, r.Key, err)
	}
	return v, nil
}
