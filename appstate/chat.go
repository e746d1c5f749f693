package appstate

import (
	"context"
	"slices"
	"strings"

	"planner-core/assistant"
)

func (s *State) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

func (s *State) appendMessage(m Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, m)
	return save(s, s.cat.messages, s.messages)
}

// SendMessage grava a mensagem do usuário, conversa com o assistente e grava a
// resposta. onChunk recebe o texto acumulado enquanto a resposta chega.
//
// Se a chamada falhar, exatamente uma mensagem substituta (FallbackReply) é gravada
// no lugar da resposta e devolvida sem erro.
func (s *State) SendMessage(ctx context.Context, prompt, image string, onChunk func(string)) (Message, error) {
	if err := s.checkReady(); err != nil {
		return Message{}, err
	}
	if s.ai == nil {
		return Message{}, ErrNoAssistant
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && image == "" {
		return Message{}, ErrInvalid
	}

	s.mu.RLock()
	history := make([]assistant.Turn, 0, len(s.messages))
	for _, m := range s.messages {
		role := assistant.RoleUser
		if m.Role == MessageAssistant {
			role = assistant.RoleAssistant
		}
		history = append(history, assistant.Turn{Role: role, Text: m.Content})
	}
	s.mu.RUnlock()

	user := Message{ID: s.newID(), Role: MessageUser, Content: prompt, Image: image, Timestamp: s.clock.Now()}
	if err := s.appendMessage(user); err != nil {
		return Message{}, err
	}

	reply, err := s.ai.ChatStream(ctx, assistant.ChatRequest{Prompt: prompt, History: history, Image: image}, onChunk)
	answer := Message{ID: s.newID(), Role: MessageAssistant, Timestamp: s.clock.Now()}
	if err != nil {
		s.log.WithError(err).Warn("chat call failed, using fallback reply")
		answer.Content = FallbackReply
	} else {
		answer.Content = reply.Text
		answer.Sources = reply.Sources
	}

	if err := s.appendMessage(answer); err != nil {
		return Message{}, err
	}
	return answer, nil
}

// SearchSuppliers não altera o estado; a falha volta para quem chamou.
func (s *State) SearchSuppliers(ctx context.Context, query string) (assistant.Reply, error) {
	if s.ai == nil {
		return assistant.Reply{}, ErrNoAssistant
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return assistant.Reply{}, ErrInvalid
	}
	return s.ai.SearchSuppliers(ctx, query)
}

func (s *State) Assets() []GeneratedAsset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assets)
}

// GenerateImage gera uma imagem e a coloca no topo da galeria.
func (s *State) GenerateImage(ctx context.Context, prompt string, ratio assistant.AspectRatio) (GeneratedAsset, error) {
	if err := s.checkReady(); err != nil {
		return GeneratedAsset{}, err
	}
	if s.ai == nil {
		return GeneratedAsset{}, ErrNoAssistant
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return GeneratedAsset{}, ErrInvalid
	}
	if !ratio.Valid() {
		ratio = assistant.AspectSquare
	}

	uri, err := s.ai.GenerateImage(ctx, prompt, ratio)
	if err != nil {
		return GeneratedAsset{}, err
	}

	a := GeneratedAsset{
		ID:          s.newID(),
		Type:        AssetImage,
		URL:         uri,
		Prompt:      prompt,
		Timestamp:   s.clock.Now(),
		AspectRatio: ratio,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = slices.Insert(s.assets, 0, a)
	return a, save(s, s.cat.assets, s.assets)
}
