package ai

import (
	"context"
	"errors"
	"testing"

	"studyos/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

type scriptedLLM struct {
	errs  []error
	reply string
	calls int
	last  []llms.MessageContent
}

func (s *scriptedLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	s.calls++
	s.last = messages
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "  " + s.reply + "\n"}}}, nil
}

func testConfig() config.AIConfig {
	return config.AIConfig{APIKey: "k", Model: "m", RequestsPerMinute: 6000, MaxRetries: 3}
}

func TestNewClientDisabledWithoutKey(t *testing.T) {
	_, err := NewClient(config.AIConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestCompleteRetriesTransientErrors(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("status 503: overloaded")}, reply: "hello"}
	c := newClient(llm, testConfig(), zap.NewNop())

	out, err := c.Complete(context.Background(), Request{Messages: []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, 2, llm.calls)
	require.Len(t, llm.last, 2)
	assert.Equal(t, schema.ChatMessageTypeSystem, llm.last[0].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, llm.last[1].Role)
}

func TestCompleteStopsOnPermanentErrors(t *testing.T) {
	llm := &scriptedLLM{errs: []error{errors.New("invalid api key")}}
	c := newClient(llm, testConfig(), zap.NewNop())

	_, err := c.Complete(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	assert.Error(t, err)
	assert.Equal(t, 1, llm.calls)
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		Summary string `json:"summary"`
	}
	require.NoError(t, DecodeJSON("```json\n{\"summary\": \"ok\"}\n```", &out))
	assert.Equal(t, "ok", out.Summary)

	require.NoError(t, DecodeJSON("Sure! {\"summary\": \"inline\"} hope that helps", &out))
	assert.Equal(t, "inline", out.Summary)

	assert.Error(t, DecodeJSON("no json here", &out))
}
