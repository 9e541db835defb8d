package analysis

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_lexicon.yaml
var defaultLexicon []byte

// Lexicon drives the keyword analyzer
type Lexicon struct {
	Positive   []string        `yaml:"positive"`
	Negative   []string        `yaml:"negative"`
	Industries []IndustryWords `yaml:"industries"`
}

// IndustryWords lists the words that mention an industry and its tickers
type IndustryWords struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Tickers  []string `yaml:"tickers"`
}

// ValidationError reports an invalid lexicon field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DefaultLexicon returns the embedded lexicon
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a lexicon file; an empty path yields the embedded default
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates YAML lexicon data
// KnownFields(true): 알 수 없는 필드는 즉시 실패
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&lex); err != nil {
		return nil, fmt.Errorf("failed to decode lexicon: %w", err)
	}

	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// Validate checks required lexicon constraints
func (l *Lexicon) Validate() error {
	if len(l.Industries) == 0 {
		return ValidationError{"industries", "at least one industry required"}
	}

	seen := make(map[string]bool, len(l.Industries))
	for i, ind := range l.Industries {
		field := fmt.Sprintf("industries[%d]", i)
		name := strings.TrimSpace(ind.Name)
		if name == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[strings.ToLower(name)] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate industry %q", name)}
		}
		seen[strings.ToLower(name)] = true

		if len(ind.Keywords) == 0 {
			return ValidationError{field + ".keywords", "at least one keyword required"}
		}
	}
	return nil
}
