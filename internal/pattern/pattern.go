// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"regexp"
)

// Pattern is a compiled, word-wrapped label expression. Source is the exact
// text that was compiled and is what gets persisted and compared.
type Pattern struct {
	Source string
	re     *regexp.Regexp
}

// Compile compiles an already wrapped pattern source.
func Compile(source string) (*Pattern, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", source, err)
	}
	return &Pattern{Source: source, re: re}, nil
}

// MatchString reports whether text contains a match.
func (p *Pattern) MatchString(text string) bool {
	return p.re.MatchString(text)
}

// String returns the pattern source.
func (p *Pattern) String() string {
	return p.Source
}
