package domain

import (
	"context"
	"errors"
)

// ErrNotFound indica que a chave não existe no tier.
var ErrNotFound = errors.New("persistence: key not found")

// SyncStore é o tier síncrono: leitura e escrita imediatas, valor inteiro por chave.
type SyncStore interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// AsyncStore é o tier assíncrono de documentos.
//
// Implementações podem ser SQLite, Redis, memória, etc.
// Load devolve ErrNotFound quando a chave nunca foi gravada.
type AsyncStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// SlotPool representa um recurso com capacidade finita (ex: gravações assíncronas simultâneas).
//
// A semântica é: Acquire bloqueia até conseguir uma vaga ou até o ctx encerrar.
// Ao adquirir, retorna uma função de release que deve ser chamada exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), ok bool)
}
