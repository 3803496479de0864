// Package texts supplies source prose for game sessions.
package texts

import (
	"embed"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"
)

//go:embed articles/*.txt
var embedded embed.FS

// Provider picks a bounded contiguous word window from an article pool for
// each session.
type Provider struct {
	rnd   *rand.Rand
	words []string
}

// NewProvider builds a provider over the given article. The article is split
// on whitespace once; windows are drawn from the resulting word sequence.
func NewProvider(article string) (*Provider, error) {
	words := strings.Fields(article)
	if len(words) == 0 {
		return nil, fmt.Errorf("article is empty")
	}
	return &Provider{
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		words: words,
	}, nil
}

// Pick returns a random contiguous window of count words joined by single
// spaces. Pools shorter than the window are returned whole.
func (p *Provider) Pick(count int) string {
	if count <= 0 || len(p.words) <= count {
		return strings.Join(p.words, " ")
	}
	start := p.rnd.Intn(len(p.words) - count + 1)
	return strings.Join(p.words[start:start+count], " ")
}

// Words returns the pool size.
func (p *Provider) Words() int {
	return len(p.words)
}

// Load reads an article for the language: an explicit path wins, then a
// user-supplied file at userPath, then the embedded pool.
func Load(lang, userPath string) (string, error) {
	if userPath != "" {
		data, err := os.ReadFile(userPath)
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read article: %w", err)
		}
	}
	data, err := embedded.ReadFile("articles/" + lang + ".txt")
	if err != nil {
		return "", fmt.Errorf("no article for language %q", lang)
	}
	return string(data), nil
}

// Langs lists the embedded article languages.
func Langs() []string {
	entries, err := embedded.ReadDir("articles")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	return langs
}
