package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// MatchThresholds are the minimum similarity scores for the local pre-match
// that short-circuits the remote verifier.
type MatchThresholds struct {
	Primary   float64 // against the canonical label
	Alternate float64 // against alternate labels
}

func DefaultMatchThresholds() MatchThresholds {
	return MatchThresholds{Primary: 0.88, Alternate: 0.80}
}

var guessFolder = cases.Fold()

// NormalizeGuess canonicalizes user input for caching and matching: width
// folding (전각→반각), case folding, punctuation/symbol removal, whitespace
// collapsing.
func NormalizeGuess(s string) string {
	s = width.Fold.String(s)
	s = guessFolder.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// strip
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Similarity is 1 - levenshtein/maxlen over runes, in [0,1].
func Similarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// PreMatch decides whether a normalized guess obviously names the target,
// so the round can resolve without a verifier round-trip. Checks exact match,
// containment of the full label, and levenshtein similarity against the
// canonical label and each alternate.
func PreMatch(normGuess string, label string, alternates []string, th MatchThresholds) bool {
	if normGuess == "" {
		return false
	}
	if matchesTarget(normGuess, label, th.Primary) {
		return true
	}
	for _, alt := range alternates {
		if matchesTarget(normGuess, alt, th.Alternate) {
			return true
		}
	}
	return false
}

func matchesTarget(normGuess, target string, threshold float64) bool {
	nt := NormalizeGuess(target)
	if nt == "" {
		return false
	}
	if normGuess == nt {
		return true
	}
	// 짧은 정답의 부분 문자열 오탐 방지: 2자 이상일 때만 포함 검사
	if len([]rune(nt)) >= 2 && strings.Contains(normGuess, nt) {
		return true
	}
	return Similarity(normGuess, nt) >= threshold
}
