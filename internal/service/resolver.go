package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/sevadesk/internal/catalog"
	"github.com/jask/sevadesk/internal/fuzzy"
	"github.com/jask/sevadesk/internal/llm"
)

// Fuzzy acceptance thresholds (0-100 scale). The model's suggestion
// must score >80 against a title; the raw-query fallback, which has had
// no semantic filtering, accepts >50. The asymmetry is load-bearing.
const (
	suggestionThreshold = 80
	fallbackThreshold   = 50
)

// MatchResult is the outcome of a resolution attempt. Non-matches are
// success-shaped: Message explains why, and no error is ever surfaced.
type MatchResult struct {
	Matched bool   `json:"matched"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// Resolver maps a free-text query to the single best catalog task using
// an ordered cascade: model suggestion, validation of that suggestion
// against the catalog (exact then fuzzy), and a fuzzy-only fallback
// when the model call itself fails. There is deliberately no raw-query
// exact-match tier before the model call; a query that equals a title
// still goes through the model.
type Resolver struct {
	Catalog  *catalog.Store
	Provider llm.Provider
	Hints    []llm.SynonymHint
	Logger   *zap.Logger
}

func NewResolver(store *catalog.Store, provider llm.Provider, hints []llm.SynonymHint, logger *zap.Logger) *Resolver {
	if hints == nil {
		hints = llm.DefaultSynonymHints
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Catalog: store, Provider: provider, Hints: hints, Logger: logger}
}

// Resolve runs the cascade. It makes at most one model call and never
// returns an error: every failure mode degrades to a non-match with a
// human-readable message.
func (r *Resolver) Resolve(ctx context.Context, query string) MatchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return MatchResult{Message: "No query provided."}
	}

	tasks := r.Catalog.LoadAll()
	titles := make([]string, 0, len(tasks))
	for _, t := range tasks {
		titles = append(titles, t.Title)
	}

	prompt := llm.BuildTaskPrompt(query, tasks, r.Hints)
	suggestion, err := r.Provider.Suggest(ctx, prompt)
	if err != nil {
		r.Logger.Warn("model call failed, using fuzzy fallback", zap.String("query", query), zap.Error(err))
		best, score := fuzzy.BestMatch(query, titles)
		r.Logger.Info("fallback fuzzy match", zap.String("query", query), zap.String("best", best), zap.Int("score", score))
		if score > fallbackThreshold {
			return MatchResult{Matched: true, Title: best}
		}
		return MatchResult{Message: "AI service temporarily unavailable. Try using exact task names."}
	}

	suggestion = strings.TrimSpace(suggestion)
	r.Logger.Info("model suggestion", zap.String("query", query), zap.String("suggestion", suggestion))

	// An explicit abstention is final; fuzzy matching must not override it.
	if suggestion == llm.NoMatch {
		return MatchResult{Message: "No relevant task found. Try being more specific or use different keywords."}
	}

	for _, t := range tasks {
		if strings.EqualFold(suggestion, t.Title) {
			return MatchResult{Matched: true, Title: t.Title}
		}
	}

	best, score := fuzzy.BestMatch(suggestion, titles)
	if score > suggestionThreshold {
		r.Logger.Info("suggestion recovered by fuzzy match", zap.String("suggestion", suggestion), zap.String("title", best), zap.Int("score", score))
		return MatchResult{Matched: true, Title: best}
	}
	return MatchResult{Message: fmt.Sprintf("Task suggested by AI (%q) not found in the catalog.", suggestion)}
}
