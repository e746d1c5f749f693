package assistant

import (
	"context"
	"iter"
)

// Role de um turno da conversa.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn é uma mensagem já trocada, usada como histórico.
type Turn struct {
	Role Role
	Text string
}

// Media é um anexo inline (imagem) já decodificado.
type Media struct {
	MIMEType string
	Data     []byte
}

// Output seleciona o formato de resposta pedido ao backend.
type Output int

const (
	OutputText Output = iota
	// OutputTaskList pede um array JSON de {title, category}.
	OutputTaskList
)

// Request é o pedido neutro enviado ao backend.
type Request struct {
	System  string
	History []Turn
	Prompt  string
	Media   *Media
	Search  bool
	Output  Output
}

// Source é uma citação de grounding.
type Source struct {
	Title string `json:"title,omitempty"`
	URI   string `json:"uri,omitempty"`
}

// Chunk é um pedaço de resposta: Text é o delta (não o acumulado).
type Chunk struct {
	Text    string
	Sources []Source
}

// AspectRatio aceito pela geração de imagem.
type AspectRatio string

const (
	AspectSquare    AspectRatio = "1:1"
	AspectLandscape AspectRatio = "16:9"
	AspectPortrait  AspectRatio = "9:16"
)

// Valid informa se r é uma das proporções suportadas.
func (r AspectRatio) Valid() bool {
	switch r {
	case AspectSquare, AspectLandscape, AspectPortrait:
		return true
	}
	return false
}

// Backend é o contrato com o serviço generativo.
type Backend interface {
	// Stream devolve os pedaços da resposta na ordem em que chegam.
	Stream(ctx context.Context, req Request) iter.Seq2[Chunk, error]
	// Generate devolve a resposta inteira de uma vez.
	Generate(ctx context.Context, req Request) (Chunk, error)
	// GenerateImage devolve a primeira imagem gerada.
	GenerateImage(ctx context.Context, prompt string, ratio AspectRatio) (Media, error)
}
