package provider

import (
	"context"
	"errors"

	"github.com/kapu/kakao-guess-bot-go/internal/domain"
)

var (
	// ErrNoContent means the generator could not produce a fresh target.
	ErrNoContent = errors.New("no content available")
)

// Verdict is the verifier's judgement of one guess.
type Verdict struct {
	IsCorrect  bool    `json:"is_correct"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// HintRequest carries everything the generator needs for a follow-up hint.
type HintRequest struct {
	Content      *domain.Content
	Mode         domain.GameMode
	Scope        string
	Difficulty   domain.Difficulty
	PriorHints   []string
	HintIndex    int
	WrongReasons []string
}

// ContentProvider generates round content and judges guesses for a game mode.
// Implementations are opaque services; callers treat every call as fallible.
type ContentProvider interface {
	SelectContent(ctx context.Context, mode domain.GameMode, scope string, difficulty domain.Difficulty, exclusions []string) (*domain.Content, error)
	InitialHint(ctx context.Context, content *domain.Content, mode domain.GameMode, scope string, difficulty domain.Difficulty) (string, error)
	FollowUpHint(ctx context.Context, req HintRequest) (string, error)
	Reveal(ctx context.Context, content *domain.Content, mode domain.GameMode, scope string, endReason string) (string, error)
	VerifyGuess(ctx context.Context, content *domain.Content, guess string) (*Verdict, error)
}

// Translator optionally rewrites a guess into the verifier's working language.
// Failures are expected; callers fall back to the original text.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// NopTranslator returns the input unchanged.
type NopTranslator struct{}

func (NopTranslator) Translate(_ context.Context, text string) (string, error) { return text, nil }
