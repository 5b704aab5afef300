package provider_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/steward/internal/provider"
)

type recordedCall struct {
	prompt string
	opts   map[string]any
}

func newClient(t *testing.T, calls *[]recordedCall, reply string, replyErr error) provider.Client {
	t.Helper()
	cfg := &provider.Config{}
	require.NoError(t, cfg.Finalize(nil))

	chat := func(_ context.Context, prompt string, opts map[string]any) (string, error) {
		if calls != nil {
			*calls = append(*calls, recordedCall{prompt: prompt, opts: opts})
		}
		return reply, replyErr
	}
	return provider.NewWithChat(chat, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCompleteSendsComposedPrompt(t *testing.T) {
	var calls []recordedCall
	out, err := newClient(t, &calls, `{"lessons":[]}`, nil).Complete(context.Background(), provider.Request{
		System:    "instructions",
		Input:     "manual text",
		MaxTokens: 4000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"lessons":[]}`, out)

	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].prompt, "instructions"))
	assert.True(t, strings.HasSuffix(calls[0].prompt, "manual text"))
	assert.Equal(t, 4000, calls[0].opts["max_tokens"])
}

func TestCompleteErrors(t *testing.T) {
	var body struct{ Choices []any }
	decodeErr := json.Unmarshal([]byte(`{"choices":[`), &body)
	typeErr := json.Unmarshal([]byte(`{"choices":"none"}`), &body)

	tests := []struct {
		name    string
		reply   string
		err     error
		wantErr error
	}{
		{"agent failure", "", errors.New("status 500: overloaded"), provider.ErrStatus},
		{"deadline", "", context.DeadlineExceeded, provider.ErrTransport},
		{"cancelled", "", context.Canceled, provider.ErrTransport},
		{"empty content", "", nil, provider.ErrEmptyResponse},
		{"whitespace content", "  \n", nil, provider.ErrEmptyResponse},
		{"truncated body", "", fmt.Errorf("decode response: %w", decodeErr), provider.ErrEmptyResponse},
		{"mistyped body", "", fmt.Errorf("decode response: %w", typeErr), provider.ErrEmptyResponse},
		{"unexpected eof", "", fmt.Errorf("read body: %w", io.ErrUnexpectedEOF), provider.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newClient(t, nil, tt.reply, tt.err).Complete(context.Background(), provider.Request{System: "s", Input: "i"})
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == provider.ErrEmptyResponse {
				assert.NotErrorIs(t, err, provider.ErrStatus)
			}
		})
	}
}

func TestCompleteMalformedContentIsNotAnError(t *testing.T) {
	out, err := newClient(t, nil, "not json at all", nil).Complete(context.Background(), provider.Request{System: "s"})
	require.NoError(t, err)
	assert.Equal(t, "not json at all", out)
}

func TestCompleteRespectsLimiter(t *testing.T) {
	cfg := &provider.Config{RequestsPerSecond: 1, Burst: 1}
	require.NoError(t, cfg.Finalize(nil))
	client := provider.NewWithChat(func(context.Context, string, map[string]any) (string, error) {
		return "{}", nil
	}, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Complete(context.Background(), provider.Request{System: "s"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.Complete(ctx, provider.Request{System: "s"})
	assert.ErrorIs(t, err, provider.ErrTransport)
}

func TestExcerptNeverExceedsCap(t *testing.T) {
	inputs := []string{
		"",
		"short manual",
		strings.Repeat("a", 12000),
		strings.Repeat("b", 50000),
		strings.Repeat("é", 20000),
	}

	for _, in := range inputs {
		out := provider.Excerpt(in, 12000)
		assert.LessOrEqual(t, utf8.RuneCountInString(out), 12000)
		assert.True(t, strings.HasPrefix(in, out))
	}

	assert.Equal(t, "", provider.Excerpt("anything", 0))
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PROVIDER_RPS", "0.5")

	cfg := provider.Config{}
	require.NoError(t, cfg.Finalize(&provider.Env{RequestsPerSecond: "TEST_PROVIDER_RPS"}))

	assert.Equal(t, 0.5, cfg.RequestsPerSecond)
	assert.Equal(t, "2m", cfg.Timeout)
	assert.Equal(t, 3, cfg.Burst)

	bad := provider.Config{Timeout: "soon"}
	assert.ErrorContains(t, bad.Finalize(nil), "invalid timeout")
}
