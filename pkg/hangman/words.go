package hangman

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"k24chat/pkg/state/logger"
)

var (
	ErrNoWords      = errors.New("hangman: word list has no playable words")
	ErrNoDefinition = errors.New("hangman: no word with a definition found")
)

// Definer looks up the definition of a word. An empty definition with a nil
// error means the dictionary has no entry.
type Definer interface {
	Define(ctx context.Context, word string) (string, error)
}

// LoadWords reads a newline separated word list and keeps the playable words.
func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	words := FilterWords(lines)
	if len(words) == 0 {
		return nil, ErrNoWords
	}
	return words, nil
}

// FilterWords keeps 7 and 8 letter entries without apostrophes, lowercased.
// Entries with letters a guess can never match are skipped too.
func FilterWords(lines []string) []string {
	out := make([]string, 0, len(lines)/8)
	for _, l := range lines {
		l = strings.TrimSpace(l)
		n := utf8.RuneCountInString(l)
		if n < 7 || n > 8 || strings.Contains(l, "'") {
			continue
		}
		w := strings.ToLower(l)
		if !asciiLetters(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func asciiLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// Picker draws random words until one has a definition.
type Picker struct {
	words       []string
	definer     Definer
	maxAttempts int
	retryPause  time.Duration
	intn        func(n int) int
}

// NewPicker returns a picker over words. maxAttempts of 0 keeps trying until
// the context is done.
func NewPicker(words []string, definer Definer, maxAttempts int) *Picker {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Picker{
		words:       words,
		definer:     definer,
		maxAttempts: maxAttempts,
		retryPause:  200 * time.Millisecond,
		intn:        r.Intn,
	}
}

// Pick returns a random word and its definition.
func (p *Picker) Pick(ctx context.Context) (Word, error) {
	if len(p.words) == 0 {
		return Word{}, ErrNoWords
	}
	for attempt := 1; p.maxAttempts == 0 || attempt <= p.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Word{}, err
		}
		w := p.words[p.intn(len(p.words))]
		def, err := p.definer.Define(ctx, w)
		if err != nil {
			logger.Warn("definition_lookup_failed", "word", w, "attempt", attempt, "error", err)
			select {
			case <-ctx.Done():
				return Word{}, ctx.Err()
			case <-time.After(p.retryPause):
			}
			continue
		}
		if def == "" {
			logger.Debug("definition_missing", "word", w, "attempt", attempt)
			continue
		}
		return Word{Word: w, Definition: strings.ToLower(def)}, nil
	}
	return Word{}, ErrNoDefinition
}
