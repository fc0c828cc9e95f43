package msgcat

import (
	"strings"
	"testing"
)

func TestRenderEmbeddedTemplates(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := c.Render("game.hint", map[string]any{"Index": 2, "Hint": "수도입니다"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "힌트 2") || !strings.Contains(out, "수도입니다") {
		t.Fatalf("rendered = %q", out)
	}
}

func TestRenderStreakConditional(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	data := map[string]any{
		"Winner": "철수", "Target": "서울", "Points": 33, "Elapsed": "12초", "Streak": 1,
	}
	out, err := c.Render("game.correct", data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "연승") {
		t.Fatalf("streak=1 should not mention 연승: %q", out)
	}
	data["Streak"] = 3
	out, err = c.Render("game.correct", data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "3연승") {
		t.Fatalf("streak=3 should mention 3연승: %q", out)
	}
}

func TestTextFallback(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("no.such.key", nil, "대체 문구"); got != "대체 문구" {
		t.Fatalf("Text fallback = %q", got)
	}
	var nilCat *Catalog
	if got := nilCat.Text("game.hint", nil, "대체"); got != "대체" {
		t.Fatalf("nil catalog Text = %q", got)
	}
	// 데이터 누락 시에도 폴백
	if got := c.Text("game.hint", map[string]any{}, "대체"); got != "대체" {
		t.Fatalf("missing data Text = %q", got)
	}
}
