package texts

import (
	"strings"
	"testing"
)

func TestPickWindowLength(t *testing.T) {
	article := strings.Repeat("كلمة ", 200)
	p, err := NewProvider(article)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	for i := 0; i < 50; i++ {
		picked := p.Pick(60)
		if got := len(strings.Fields(picked)); got != 60 {
			t.Fatalf("expected 60 words, got %d", got)
		}
	}
}

func TestPickShortPoolReturnsWhole(t *testing.T) {
	p, err := NewProvider("واحد اثنان ثلاثة")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if got := p.Pick(60); got != "واحد اثنان ثلاثة" {
		t.Fatalf("expected whole pool, got %q", got)
	}
}

func TestNewProviderRejectsEmpty(t *testing.T) {
	if _, err := NewProvider("  \n\t "); err == nil {
		t.Fatal("expected error for empty article")
	}
}

func TestEmbeddedLangs(t *testing.T) {
	langs := Langs()
	found := map[string]bool{}
	for _, lang := range langs {
		found[lang] = true
	}
	if !found["ar"] || !found["en"] {
		t.Fatalf("expected embedded ar and en articles, got %v", langs)
	}
	for _, lang := range []string{"ar", "en"} {
		article, err := Load(lang, "")
		if err != nil {
			t.Fatalf("load %s: %v", lang, err)
		}
		if len(strings.Fields(article)) < 60 {
			t.Fatalf("embedded %s article too short for a game window", lang)
		}
	}
}
