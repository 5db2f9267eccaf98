// Package words holds the bundled word list and phrase pool. Both are
// loaded once at startup from data embedded in the binary and are
// read-only afterwards, so they are safe to share across sessions.
package words

import (
	"encoding/json"
	"fmt"
	"math/rand"

	_ "embed"
)

//go:embed words.json
var wordsData []byte

//go:embed phrases.json
var phrasesData []byte

// Dictionary answers membership tests for submitted words. Matching is
// exact-case; no normalization is applied.
type Dictionary struct {
	words map[string]struct{}
}

func NewDictionary(words []string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.words[w] = struct{}{}
	}
	return d
}

func (d *Dictionary) Contains(word string) bool {
	_, ok := d.words[word]
	return ok
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// PhrasePool draws the substring every submission must contain.
type PhrasePool struct {
	phrases []string
}

func NewPhrasePool(phrases []string) *PhrasePool {
	return &PhrasePool{phrases: phrases}
}

func (p *PhrasePool) Random() string {
	return p.phrases[rand.Intn(len(p.phrases))]
}

func (p *PhrasePool) Len() int {
	return len(p.phrases)
}

// Load parses the embedded word and phrase data.
func Load() (*Dictionary, *PhrasePool, error) {
	var words []string
	if err := json.Unmarshal(wordsData, &words); err != nil {
		return nil, nil, fmt.Errorf("parsing bundled words: %w", err)
	}
	var phrases []string
	if err := json.Unmarshal(phrasesData, &phrases); err != nil {
		return nil, nil, fmt.Errorf("parsing bundled phrases: %w", err)
	}
	if len(words) == 0 || len(phrases) == 0 {
		return nil, nil, fmt.Errorf("bundled word data is empty")
	}
	return NewDictionary(words), NewPhrasePool(phrases), nil
}
