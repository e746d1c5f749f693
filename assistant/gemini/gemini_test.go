package gemini

import (
	"context"
	"testing"

	"planner-core/assistant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestContents_HistoryRolesAndInlineMedia(t *testing.T) {
	req := assistant.Request{
		History: []assistant.Turn{
			{Role: assistant.RoleUser, Text: "oi"},
			{Role: assistant.RoleAssistant, Text: "olá"},
		},
		Prompt: "veja a foto",
		Media:  &assistant.Media{MIMEType: "image/jpeg", Data: []byte("x")},
	}

	got := contents(req)
	require.Len(t, got, 3)
	assert.Equal(t, "user", got[0].Role)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "olá", got[1].Parts[0].Text)

	last := got[2]
	assert.Equal(t, "user", last.Role)
	require.Len(t, last.Parts, 2)
	require.NotNil(t, last.Parts[0].InlineData)
	assert.Equal(t, "image/jpeg", last.Parts[0].InlineData.MIMEType)
	assert.Equal(t, "veja a foto", last.Parts[1].Text)
}

func TestConfig(t *testing.T) {
	cfg := config(assistant.Request{System: "sys", Search: true})
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "sys", cfg.SystemInstruction.Parts[0].Text)
	require.Len(t, cfg.Tools, 1)
	assert.NotNil(t, cfg.Tools[0].GoogleSearch)
	assert.Empty(t, cfg.ResponseMIMEType)

	cfg = config(assistant.Request{Output: assistant.OutputTaskList})
	assert.Nil(t, cfg.SystemInstruction)
	assert.Empty(t, cfg.Tools)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Same(t, taskListSchema, cfg.ResponseSchema)
}

func TestChunk_ExtractsWebSources(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: "buffet "}, {Text: "bom"}}},
			GroundingMetadata: &genai.GroundingMetadata{
				GroundingChunks: []*genai.GroundingChunk{
					{Web: &genai.GroundingChunkWeb{Title: "A", URI: "https://a"}},
					{},
					{Web: &genai.GroundingChunkWeb{Title: "B", URI: "https://b"}},
				},
			},
		}},
	}

	c := chunk(resp)
	assert.Equal(t, "buffet bom", c.Text)
	assert.Equal(t, []assistant.Source{{Title: "A", URI: "https://a"}, {Title: "B", URI: "https://b"}}, c.Sources)

	assert.Equal(t, assistant.Chunk{}, chunk(nil))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.Error(t, err)
}
