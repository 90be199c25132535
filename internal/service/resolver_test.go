package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/sevadesk/internal/catalog"
	"github.com/jask/sevadesk/internal/llm"
)

type stubProvider struct {
	response   string
	err        error
	calls      int
	lastPrompt string
}

func (s *stubProvider) Suggest(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.response, s.err
}

const testCatalog = `{
  "tasks": [
    {"title": "Aadhaar Card Registration", "description": "Enrol for Aadhaar."},
    {"title": "PAN Card Application", "description": "Apply for a PAN."},
    {"title": "Passport Application", "description": "Apply for a passport."},
    {"title": "GST Registration", "description": "Register for GST."}
  ]
}`

func newTestResolver(t *testing.T, provider llm.Provider) *Resolver {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))
	store := catalog.NewStore(path, nil)
	return NewResolver(store, provider, nil, nil)
}

func TestResolveEmptyQueryMakesNoCalls(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "   ")
	require.False(t, result.Matched)
	require.Equal(t, "No query provided.", result.Message)
	require.Zero(t, stub.calls)
}

func TestResolveExactSuggestionMatch(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{response: "pan card application"}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "i need a pan card")
	require.True(t, result.Matched)
	require.Equal(t, "PAN Card Application", result.Title)
	require.Equal(t, 1, stub.calls)
}

func TestResolveRawQueryEqualToTitleStillConsultsModel(t *testing.T) {
	t.Parallel()
	// The model answers a different valid title; with no raw-query
	// exact-match tier the model's answer wins over the literal input.
	stub := &stubProvider{response: "GST Registration"}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "Passport Application")
	require.True(t, result.Matched)
	require.Equal(t, "GST Registration", result.Title)
	require.Equal(t, 1, stub.calls)
}

func TestResolveAbstentionIsFinal(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{response: "NO_MATCH"}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "NO_MATCH")
	require.False(t, result.Matched)
	require.Contains(t, result.Message, "No relevant task found")
}

func TestResolveSuggestionRecoveredByFuzzy(t *testing.T) {
	t.Parallel()
	// model response is a close spelling variant of a real title
	stub := &stubProvider{response: "Aadhar Card Registration"}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "make my aadhar card")
	require.True(t, result.Matched)
	require.Equal(t, "Aadhaar Card Registration", result.Title)
}

func TestResolveUnrecognizedSuggestion(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{response: "Quantum Flux Licensing"}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "something odd")
	require.False(t, result.Matched)
	require.Contains(t, result.Message, "Quantum Flux Licensing")
}

func TestResolveModelFailureFallsBackToRawQuery(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{err: errors.New("model unavailable")}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "passport aplication")
	require.True(t, result.Matched)
	require.Equal(t, "Passport Application", result.Title)
}

func TestResolveModelFailureLowScore(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{err: errors.New("model unavailable")}
	r := newTestResolver(t, stub)

	result := r.Resolve(context.Background(), "zzzzzz")
	require.False(t, result.Matched)
	require.Contains(t, result.Message, "temporarily unavailable")
}

func TestResolvePromptCarriesCatalogAndQuery(t *testing.T) {
	t.Parallel()
	stub := &stubProvider{response: "NO_MATCH"}
	r := newTestResolver(t, stub)

	r.Resolve(context.Background(), "register my marriage")
	require.Contains(t, stub.lastPrompt, "register my marriage")
	require.Contains(t, stub.lastPrompt, "1. Aadhaar Card Registration")
	require.Contains(t, stub.lastPrompt, "4. GST Registration")
	require.Contains(t, stub.lastPrompt, "NO_MATCH")
	// default synonym hints are embedded as prompt data
	require.Contains(t, stub.lastPrompt, "Private Limited Company Registration")
}
