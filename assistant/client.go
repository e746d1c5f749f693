package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	queue "planner-core/queue/application"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultHistoryTurns é quantos turnos recentes acompanham cada mensagem.
const DefaultHistoryTurns = 6

const defaultCategory = "Geral"

const systemInstruction = `Você é a assessora virtual do planejador de casamentos.
Ofereça clareza, critério e segurança para quem está organizando o casamento.
Tom de voz: calmo, firme, respeitoso e didático.`

var (
	// ErrMalformedReply: a resposta estruturada não pôde ser interpretada.
	ErrMalformedReply = errors.New("assistant: malformed structured reply")
	// ErrNoImage: o backend respondeu sem nenhuma imagem.
	ErrNoImage = errors.New("assistant: no image generated")
)

// ChatRequest é uma mensagem nova do usuário.
type ChatRequest struct {
	Prompt  string
	History []Turn
	// Image é um data URI ou base64 puro (opcional).
	Image string
}

// Reply é o texto final mais as citações (nil quando não houver nenhuma).
type Reply struct {
	Text    string
	Sources []Source
}

// TaskSuggestion é uma tarefa sugerida para o roteiro.
type TaskSuggestion struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Client encaminha cada chamada pela fila. Não repete chamadas que falharam: o erro
// volta para quem chamou, que decide o que mostrar.
type Client struct {
	backend      Backend
	limiter      *queue.Limiter
	historyTurns int
	system       string
	log          logrus.FieldLogger
}

type ClientOption func(*Client)

func WithHistoryTurns(n int) ClientOption {
	return func(c *Client) { c.historyTurns = n }
}

func WithSystemInstruction(s string) ClientOption {
	return func(c *Client) { c.system = s }
}

func WithLogger(log logrus.FieldLogger) ClientOption {
	return func(c *Client) { c.log = log }
}

func NewClient(backend Backend, limiter *queue.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		backend:      backend,
		limiter:      limiter,
		historyTurns: DefaultHistoryTurns,
		system:       systemInstruction,
		log:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.historyTurns <= 0 {
		c.historyTurns = DefaultHistoryTurns
	}
	c.log = c.log.WithField("component", "assistant")
	return c
}

// ChatStream envia uma mensagem com busca habilitada. onChunk (opcional) recebe o texto
// acumulado a cada pedaço; pode ser chamado zero ou mais vezes antes do retorno.
func (c *Client) ChatStream(ctx context.Context, req ChatRequest, onChunk func(cumulative string)) (Reply, error) {
	breq := Request{
		System:  c.system,
		History: lastTurns(req.History, c.historyTurns),
		Prompt:  req.Prompt,
		Search:  true,
	}
	if req.Image != "" {
		m, err := ParseInlineImage(req.Image)
		if err != nil {
			return Reply{}, err
		}
		breq.Media = &m
	}

	return queue.Execute(ctx, c.limiter, "chat", func(ctx context.Context) (Reply, error) {
		var (
			text    strings.Builder
			sources sourceSet
		)
		for chunk, err := range c.backend.Stream(ctx, breq) {
			if err != nil {
				return Reply{}, err
			}
			text.WriteString(chunk.Text)
			sources.add(chunk.Sources...)
			if onChunk != nil {
				onChunk(text.String())
			}
		}
		return Reply{Text: text.String(), Sources: sources.result()}, nil
	})
}

// SearchSuppliers busca fornecedores com grounding na web.
func (c *Client) SearchSuppliers(ctx context.Context, query string) (Reply, error) {
	breq := Request{
		System: c.system,
		Prompt: fmt.Sprintf("Busque fornecedores qualificados e confiáveis para: %s. Responda com uma análise criteriosa e profissional.", query),
		Search: true,
	}
	return queue.Execute(ctx, c.limiter, "suppliers", func(ctx context.Context) (Reply, error) {
		chunk, err := c.backend.Generate(ctx, breq)
		if err != nil {
			return Reply{}, err
		}
		var sources sourceSet
		sources.add(chunk.Sources...)
		return Reply{Text: chunk.Text, Sources: sources.result()}, nil
	})
}

// GenerateTasks pede um roteiro de tarefas para goal. Itens sem título são ignorados.
func (c *Client) GenerateTasks(ctx context.Context, goal string) ([]TaskSuggestion, error) {
	breq := Request{
		System: c.system,
		Prompt: fmt.Sprintf("Elabore, com critério, um roteiro de tarefas para: %s.", goal),
		Output: OutputTaskList,
	}
	text, err := queue.Execute(ctx, c.limiter, "tasks", func(ctx context.Context) (string, error) {
		chunk, err := c.backend.Generate(ctx, breq)
		return chunk.Text, err
	})
	if err != nil {
		return nil, err
	}
	return parseTaskSuggestions(text)
}

// GenerateImage gera uma imagem e devolve o data URI dela.
func (c *Client) GenerateImage(ctx context.Context, prompt string, ratio AspectRatio) (string, error) {
	if !ratio.Valid() {
		ratio = AspectSquare
	}
	return queue.Execute(ctx, c.limiter, "image", func(ctx context.Context) (string, error) {
		m, err := c.backend.GenerateImage(ctx, prompt, ratio)
		if err != nil {
			return "", err
		}
		if len(m.Data) == 0 {
			return "", ErrNoImage
		}
		return m.DataURI(), nil
	})
}

func lastTurns(history []Turn, n int) []Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func parseTaskSuggestions(text string) ([]TaskSuggestion, error) {
	text = strings.TrimSpace(text)
	// alguns modelos embrulham o JSON em bloco de código
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedReply)
	}

	res := gjson.Parse(text)
	if !res.IsArray() {
		return nil, fmt.Errorf("%w: expected array", ErrMalformedReply)
	}

	var out []TaskSuggestion
	res.ForEach(func(_, item gjson.Result) bool {
		title := strings.TrimSpace(item.Get("title").String())
		if title == "" {
			return true
		}
		cat := strings.TrimSpace(item.Get("category").String())
		if cat == "" {
			cat = defaultCategory
		}
		out = append(out, TaskSuggestion{Title: title, Category: cat})
		return true
	})
	return out, nil
}
