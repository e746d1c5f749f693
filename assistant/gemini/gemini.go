// Package gemini implementa assistant.Backend sobre google.golang.org/genai.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"planner-core/assistant"

	"google.golang.org/genai"
)

const (
	DefaultChatModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-4.0-generate-001"
)

// Backend conversa com a API Gemini.
type Backend struct {
	client     *genai.Client
	chatModel  string
	imageModel string
}

type Option func(*Backend)

func WithChatModel(m string) Option {
	return func(b *Backend) {
		if m != "" {
			b.chatModel = m
		}
	}
}

func WithImageModel(m string) Option {
	return func(b *Backend) {
		if m != "" {
			b.imageModel = m
		}
	}
}

// New cria o cliente da API. apiKey é obrigatória.
func New(ctx context.Context, apiKey string, opts ...Option) (*Backend, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: missing API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}

	b := &Backend{client: client, chatModel: DefaultChatModel, imageModel: DefaultImageModel}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Backend) Stream(ctx context.Context, req assistant.Request) iter.Seq2[assistant.Chunk, error] {
	return func(yield func(assistant.Chunk, error) bool) {
		for resp, err := range b.client.Models.GenerateContentStream(ctx, b.chatModel, contents(req), config(req)) {
			if err != nil {
				yield(assistant.Chunk{}, err)
				return
			}
			if !yield(chunk(resp), nil) {
				return
			}
		}
	}
}

func (b *Backend) Generate(ctx context.Context, req assistant.Request) (assistant.Chunk, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.chatModel, contents(req), config(req))
	if err != nil {
		return assistant.Chunk{}, err
	}
	return chunk(resp), nil
}

func (b *Backend) GenerateImage(ctx context.Context, prompt string, ratio assistant.AspectRatio) (assistant.Media, error) {
	resp, err := b.client.Models.GenerateImages(ctx, b.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    string(ratio),
	})
	if err != nil {
		return assistant.Media{}, err
	}
	for _, img := range resp.GeneratedImages {
		if img == nil || img.Image == nil || len(img.Image.ImageBytes) == 0 {
			continue
		}
		return assistant.Media{MIMEType: img.Image.MIMEType, Data: img.Image.ImageBytes}, nil
	}
	return assistant.Media{}, assistant.ErrNoImage
}

// contents monta histórico + mensagem nova. A mídia inline vem antes do texto.
func contents(req assistant.Request) []*genai.Content {
	out := make([]*genai.Content, 0, len(req.History)+1)
	for _, t := range req.History {
		role := "user"
		if t.Role == assistant.RoleAssistant {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{{Text: t.Text}}})
	}

	var parts []*genai.Part
	if req.Media != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: req.Media.MIMEType, Data: req.Media.Data}})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})
	return append(out, &genai.Content{Role: "user", Parts: parts})
}

var taskListSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    {Type: genai.TypeString},
			"category": {Type: genai.TypeString},
		},
		Required: []string{"title", "category"},
	},
}

func config(req assistant.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Search {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}
	if req.Output == assistant.OutputTaskList {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = taskListSchema
	}
	return cfg
}

// chunk extrai o texto e as citações web do primeiro candidato.
func chunk(resp *genai.GenerateContentResponse) assistant.Chunk {
	if resp == nil {
		return assistant.Chunk{}
	}
	c := assistant.Chunk{Text: resp.Text()}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].GroundingMetadata == nil {
		return c
	}
	for _, g := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if g == nil || g.Web == nil {
			continue
		}
		c.Sources = append(c.Sources, assistant.Source{Title: g.Web.Title, URI: g.Web.URI})
	}
	return c
}
