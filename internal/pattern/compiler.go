// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pattern turns taxonomy labels into regular expressions that match
// the grammatical variants of the label: plurals, possessives, optional
// hyphens in prefixed words and punctuation variants between words.
//
// Compilation is deterministic. Two labels that produce the same pattern
// source are variants of each other, which the validator relies on to spot
// redundant labels.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/taxonomy-engine/pkg/types"
)

var (
	containsDigit   = regexp.MustCompile(`\d`)
	startsWithNon   = regexp.MustCompile(`(?i)^non[a-z]`)
	startsWithAnti  = regexp.MustCompile(`(?i)^anti[a-z]`)
	punctuationRuns = regexp.MustCompile(`\W+`)
)

type stemRule struct {
	match   *regexp.Regexp
	replace string
}

// Compiler builds label patterns from a fixed rule set.
// A Compiler is immutable once built and safe for concurrent use.
type Compiler struct {
	wordWrap   string
	invariable map[string]bool
	exceptions map[string]string
	unchanged  []*regexp.Regexp
	stemming   []stemRule
	separators map[string]string
	symbols    map[string]string
}

// New builds a Compiler from rules and a word-wrap template containing a
// single %s verb. An empty template selects types.DefaultWordWrap.
func New(rules Rules, wordWrap string) (*Compiler, error) {
	if wordWrap == "" {
		wordWrap = types.DefaultWordWrap
	}
	if strings.Count(wordWrap, "%s") != 1 {
		return nil, fmt.Errorf("word wrap %q must contain exactly one %%s", wordWrap)
	}

	c := &Compiler{
		wordWrap:   wordWrap,
		invariable: make(map[string]bool, len(rules.InvariableWords)),
		exceptions: make(map[string]string, len(rules.Exceptions)),
		separators: make(map[string]string, len(rules.Separators)),
		symbols:    make(map[string]string, len(rules.Symbols)),
	}
	for _, w := range rules.InvariableWords {
		c.invariable[w] = true
	}
	for k, v := range rules.Exceptions {
		c.exceptions[k] = v
	}
	for k, v := range rules.Separators {
		c.separators[k] = v
	}
	for k, v := range rules.Symbols {
		c.symbols[k] = v
	}
	for _, expr := range rules.Unchanged {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("compiling unchanged rule %q: %w", expr, err)
		}
		c.unchanged = append(c.unchanged, re)
	}
	for _, r := range rules.Stemming {
		re, err := regexp.Compile(r.Match)
		if err != nil {
			return nil, fmt.Errorf("compiling stemming rule %q: %w", r.Match, err)
		}
		c.stemming = append(c.stemming, stemRule{match: re, replace: r.Replace})
	}
	return c, nil
}

// NewFromConfig builds a Compiler from configuration, loading the rules file
// when one is set.
func NewFromConfig(cfg types.CompilerConfig) (*Compiler, error) {
	rules := DefaultRules()
	if cfg.RulesFile != "" {
		var err error
		rules, err = LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
	}
	return New(rules, cfg.WordWrap)
}

// Default returns a Compiler with the built-in rules and word wrap.
func Default() *Compiler {
	c, err := New(DefaultRules(), "")
	if err != nil {
		panic(err)
	}
	return c
}

// Wrap applies the word-wrap template to a pattern fragment.
func (c *Compiler) Wrap(fragment string) string {
	return strings.Replace(c.wordWrap, "%s", fragment, 1)
}

// CompileWord returns the pattern fragment for a single word.
func (c *Compiler) CompileWord(word string) string {
	if word == "" {
		return ""
	}

	switch {
	case isUpper(word):
		// Acronym.
		return foldFirst(word + "s?")
	case isTitle(word):
		// Proper noun.
		return foldFirst(word + "('s)?")
	case containsDigit.MatchString(word):
		return foldFirst(word)
	case startsWithNon.MatchString(word):
		return foldFirst("non-?" + c.CompileWord(word[3:]))
	case startsWithAnti.MatchString(word):
		return foldFirst("anti-?" + c.CompileWord(word[4:]))
	}

	if c.invariable[word] {
		return foldFirst(word)
	}
	if exc, ok := c.exceptions[word]; ok {
		return foldFirst(exc)
	}
	for _, re := range c.unchanged {
		if re.MatchString(word) {
			return foldFirst(word)
		}
	}
	for _, rule := range c.stemming {
		if stemmed := rule.match.ReplaceAllString(word, rule.replace); stemmed != word {
			return foldFirst(stemmed)
		}
	}
	return foldFirst(word + "s?")
}

// LabelPattern returns the unwrapped pattern for a label. The label is split
// on runs of non-word characters; words go through CompileWord and
// punctuation is converted with the separator or symbol table.
func (c *Compiler) LabelPattern(label string) string {
	parts := splitByPunctuation(label)

	var b strings.Builder
	for i, part := range parts {
		if i%2 == 0 {
			if isDigits(part) {
				b.WriteString(part)
			} else {
				b.WriteString(c.CompileWord(part))
			}
			continue
		}
		// A separator not followed by another word is a trailing symbol.
		if parts[i+1] == "" {
			b.WriteString(convertPunctuation(part, c.symbols))
		} else {
			b.WriteString(convertPunctuation(part, c.separators))
		}
	}
	return b.String()
}

// CompileLabel compiles a preferred or alternative label.
func (c *Compiler) CompileLabel(label string) (*Pattern, error) {
	return Compile(c.Wrap(c.LabelPattern(label)))
}

// CompileHidden compiles a hidden label. Labels delimited by slashes are
// literal expressions and only get grouped and wrapped, so the word
// boundaries hold for every alternative; others are treated like any other
// label.
func (c *Compiler) CompileHidden(label string) (*Pattern, error) {
	if IsRegexLabel(label) {
		return Compile(c.Wrap("(?:" + label[1:len(label)-1] + ")"))
	}
	return c.CompileLabel(label)
}

// IsRegexLabel reports whether label is a /.../ literal expression.
func IsRegexLabel(label string) bool {
	return len(label) >= 2 && label[0] == '/' && label[len(label)-1] == '/'
}

// splitByPunctuation splits s around runs of non-word characters, keeping
// the runs. Even indexes hold words (possibly empty) and odd indexes hold
// punctuation, so the result always has an odd length.
func splitByPunctuation(s string) []string {
	locs := punctuationRuns.FindAllStringIndex(s, -1)
	parts := make([]string, 0, 2*len(locs)+1)
	prev := 0
	for _, loc := range locs {
		parts = append(parts, s[prev:loc[0]], s[loc[0]:loc[1]])
		prev = loc[1]
	}
	return append(parts, s[prev:])
}

func convertPunctuation(punctuation string, table map[string]string) string {
	if converted, ok := table[punctuation]; ok {
		return converted
	}
	return regexp.QuoteMeta(punctuation)
}

// foldFirst makes the first letter match either case. The lowercase form
// always comes first so equivalent patterns compare equal.
func foldFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLetter(r) {
		return s
	}
	return "[" + string(unicode.ToLower(r)) + string(unicode.ToUpper(r)) + "]" + s[size:]
}

// isUpper reports whether s has at least one cased letter and no lowercase ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// isTitle reports whether every uppercase letter in s starts a cased run and
// every lowercase letter follows a cased one.
func isTitle(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
		default:
			prevCased = false
		}
	}
	return cased
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
