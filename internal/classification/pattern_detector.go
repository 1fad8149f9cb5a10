// Package classification suggests a category for a transaction description
// using prioritized regular-expression patterns.
package classification

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/Veraticus/smart-expense/internal/service"
)

// MinDescriptionLength is the shortest description worth classifying.
const MinDescriptionLength = 3

// Pattern maps a description regex to a category.
type Pattern struct {
	Name       string
	Category   string
	Regex      string
	Priority   int     // Higher priority patterns are checked first
	Confidence float64 // Base confidence when pattern matches (0.0-1.0)
}

// CompiledPattern holds a compiled regex pattern with metadata.
type CompiledPattern struct {
	compiledRegex *regexp.Regexp
	Pattern
}

// Categorizer implements pattern-based category suggestion.
type Categorizer struct {
	patterns []CompiledPattern
	mu       sync.RWMutex
}

var _ service.Classifier = (*Categorizer)(nil)

// NewCategorizer creates a categorizer with the given patterns.
func NewCategorizer(patterns []Pattern) (*Categorizer, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &Categorizer{patterns: compiled}, nil
}

// NewDefaultCategorizer creates a categorizer loaded with DefaultPatterns.
func NewDefaultCategorizer() (*Categorizer, error) {
	return NewCategorizer(DefaultPatterns())
}

// Match represents a pattern match result.
type Match struct {
	PatternName string
	Category    string
	Confidence  float64
}

// Match returns the highest-priority pattern matching text, or nil.
func (c *Categorizer) Match(text string) *Match {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinDescriptionLength {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, pattern := range c.patterns {
		if !pattern.compiledRegex.MatchString(text) {
			continue
		}

		confidence := pattern.Confidence
		// Boost confidence for exact matches
		if strings.EqualFold(text, pattern.Name) {
			confidence = min(confidence+0.1, 1.0)
		}
		return &Match{
			PatternName: pattern.Name,
			Category:    pattern.Category,
			Confidence:  confidence,
		}
	}
	return nil
}

// Classify returns the suggested category for text. An empty result with a
// nil error means no pattern matched.
func (c *Categorizer) Classify(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m := c.Match(text); m != nil {
		return m.Category, nil
	}
	return "", nil
}

// UpdatePatterns replaces the loaded patterns.
func (c *Categorizer) UpdatePatterns(patterns []Pattern) error {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.patterns = compiled
	c.mu.Unlock()
	return nil
}

// PatternCount returns the number of loaded patterns.
func (c *Categorizer) PatternCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.patterns)
}

func compilePatterns(patterns []Pattern) ([]CompiledPattern, error) {
	compiled := make([]CompiledPattern, 0, len(patterns))

	for _, p := range patterns {
		if strings.TrimSpace(p.Category) == "" {
			return nil, fmt.Errorf("pattern %s has no category", p.Name)
		}

		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr // Make case-insensitive by default
		}

		regex, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, CompiledPattern{
			Pattern:       p,
			compiledRegex: regex,
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})
	return compiled, nil
}
