package grapheme

import (
	"strings"
	"testing"
)

func TestUnisegKeepsMarksAttached(t *testing.T) {
	// كَتَبَ: three base letters, each followed by a fatha.
	clusters := Uniseg{}.Segments("كَتَبَ")
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d: %q", len(clusters), clusters)
	}
	for _, c := range clusters {
		if len([]rune(c)) != 2 {
			t.Fatalf("expected base+mark cluster, got %q", c)
		}
	}
}

func TestUnisegEmptyInput(t *testing.T) {
	if got := (Uniseg{}).Segments(""); got != nil {
		t.Fatalf("expected nil for empty input, got %q", got)
	}
}

func TestUnisegRoundTrips(t *testing.T) {
	in := "مرحباً بالعالم"
	if got := strings.Join(Uniseg{}.Segments(in), ""); got != in {
		t.Fatalf("segments do not reassemble: %q != %q", got, in)
	}
}

func TestCodepointsComposesBeforeSplitting(t *testing.T) {
	// e + combining acute composes to é, so the fallback keeps it whole.
	clusters := Codepoints{}.Segments("éf")
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d: %q", len(clusters), clusters)
	}
	if clusters[0] != "é" {
		t.Fatalf("expected composed é, got %q", clusters[0])
	}
}

func TestCodepointsSplitsUncomposableMarks(t *testing.T) {
	// Arabic fatha has no composed form, so the fallback detaches it.
	clusters := Codepoints{}.Segments("بَ")
	if len(clusters) != 2 {
		t.Fatalf("expected split base and mark, got %q", clusters)
	}
}
