package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (m *mockLLM) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestRank_EchoedOrderIsIdempotent(t *testing.T) {
	mock := &mockLLM{response: "1. first\n2. second\n3. third"}
	r := NewReranker(mock)

	indices, err := r.Rank(context.Background(), "q", []string{"first", "second", "third"})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, indices)
}

func TestRank_ReordersByModelAnswer(t *testing.T) {
	mock := &mockLLM{response: "3. third\n1. first\n2. second"}
	r := NewReranker(mock)

	indices, err := r.Rank(context.Background(), "q", []string{"first", "second", "third"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 1}, indices)
}

func TestRank_ShortcutsSkipTheModel(t *testing.T) {
	mock := &mockLLM{}
	r := NewReranker(mock)

	indices, err := r.Rank(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Nil(t, indices)

	indices, err = r.Rank(context.Background(), "q", []string{"only"})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, indices)

	assert.Zero(t, mock.calls)
}

func TestRank_PromptNumbersCandidatesFromOne(t *testing.T) {
	mock := &mockLLM{response: "1. a\n2. b"}
	r := NewReranker(mock)

	_, err := r.Rank(context.Background(), "quiet hotel", []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, mock.prompts, 1)
	assert.Contains(t, mock.prompts[0], "1. a")
	assert.Contains(t, mock.prompts[0], "2. b")
	assert.Contains(t, mock.prompts[0], "quiet hotel")
}

func TestRank_ModelErrorSurfaces(t *testing.T) {
	r := NewReranker(&mockLLM{err: errors.New("model unavailable")})

	_, err := r.Rank(context.Background(), "q", []string{"a", "b"})
	assert.Error(t, err)
}

func TestParseRankedIndices(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     []int
	}{
		{"well formed", "2. b\n1. a\n3. c", 3, []int{1, 0, 2}},
		{"parenthesis style", "2) b\n1) a", 2, []int{1, 0}},
		{"bare numbers", "2 b\n1 a", 2, []int{1, 0}},
		{"duplicates dropped", "1. a\n1. a\n2. b", 2, []int{0, 1}},
		{"out of range dropped", "5. e\n1. a", 2, []int{0}},
		{"zero dropped", "0. z\n2. b", 2, []int{1}},
		{"unparsable", "no ranking here", 3, nil},
		{"empty", "", 3, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRankedIndices(tt.response, tt.n))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 300))
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncate(string(long), 300), 303)
}
