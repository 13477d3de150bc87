// Package classification suggests hotel categories from free-text charge
// descriptions when no upstream suggestion is available.
package classification

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Pattern maps a keyword expression onto a hotel category.
type Pattern struct {
	Name     string
	Category model.Category
	Regex    string
	Priority int // Higher priority patterns are checked first
}

// CompiledPattern holds a compiled regex pattern with metadata.
type CompiledPattern struct {
	compiledRegex *regexp.Regexp
	Pattern
}

// Match is the outcome of a keyword lookup.
type Match struct {
	PatternName string
	Category    model.Category
	Fallback    bool
}

// PatternDetector suggests categories by keyword. It is immutable after
// construction and safe for concurrent use.
type PatternDetector struct {
	fallback model.Category
	patterns []CompiledPattern
}

// NewPatternDetector compiles patterns into a detector. Every pattern is
// matched case-insensitively and must target a taxonomy category.
func NewPatternDetector(patterns []Pattern, fallback model.Category) (*PatternDetector, error) {
	if !fallback.Valid() {
		return nil, fmt.Errorf("invalid fallback category: %w", model.ErrUnknownCategory)
	}

	compiled := make([]CompiledPattern, 0, len(patterns))
	for _, p := range patterns {
		if !p.Category.Valid() {
			return nil, fmt.Errorf("pattern %s targets %q: %w", p.Name, p.Category, model.ErrUnknownCategory)
		}

		regexStr := p.Regex
		if !strings.HasPrefix(regexStr, "(?i)") {
			regexStr = "(?i)" + regexStr
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

	// Equal priorities keep their declaration order.
	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority > compiled[j].Priority
	})

	return &PatternDetector{
		patterns: compiled,
		fallback: fallback,
	}, nil
}

// NewDefaultDetector returns a detector loaded with DefaultPatterns.
func NewDefaultDetector() *PatternDetector {
	pd, err := NewPatternDetector(DefaultPatterns(), model.CategoryIncidentals)
	if err != nil {
		// DefaultPatterns is a compile-time table.
		panic(fmt.Sprintf("default hotel patterns are invalid: %v", err))
	}
	return pd
}

// Detect returns the highest-priority pattern matching description, or the
// fallback category when nothing matches.
func (pd *PatternDetector) Detect(description string) Match {
	text := strings.TrimSpace(description)
	for _, pattern := range pd.patterns {
		if pattern.compiledRegex.MatchString(text) {
			return Match{
				PatternName: pattern.Name,
				Category:    pattern.Category,
			}
		}
	}

	return Match{Category: pd.fallback, Fallback: true}
}

// Suggest returns only the suggested category for description.
func (pd *PatternDetector) Suggest(description string) model.Category {
	return pd.Detect(description).Category
}

// GetPatternCount returns the number of loaded patterns.
func (pd *PatternDetector) GetPatternCount() int {
	return len(pd.patterns)
}
