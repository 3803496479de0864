package arabic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalizeStripsDiacritics(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "كتاب", want: "كتاب"},
		{name: "fatha", in: "كَتَبَ", want: "كتب"},
		{name: "shadda and damma", in: "مُحَمَّد", want: "محمد"},
		{name: "alef madda decomposes", in: "آ", want: "ا"},
		{name: "tatweel removed", in: "كـــتاب", want: "كتاب"},
		{name: "nbsp becomes space", in: "كتاب جديد", want: "كتاب جديد"},
		{name: "zero width runs become spaces", in: "a​b‌c", want: "a b c"},
		{name: "latin accent", in: "café", want: "cafe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.String().Draw(rt, "s")
		once := Normalize(s)
		require.Equal(rt, once, Normalize(once))
	})
}

func TestNormalizeBaseWithMarksYieldsBase(t *testing.T) {
	marks := []string{"ً", "ٌ", "َ", "ُ", "ِ", "ّ", "ْ"}
	for _, mark := range marks {
		got := Normalize("ب" + mark)
		if got != "ب" {
			t.Fatalf("Normalize(base+%U) = %q, want bare base", []rune(mark)[0], got)
		}
	}
}
