// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pattern

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// StemRule rewrites a word into a pattern covering its inflected forms.
// Replace uses regexp.Expand syntax (${1}).
type StemRule struct {
	Match   string `json:"match" yaml:"match"`
	Replace string `json:"replace" yaml:"replace"`
}

// Rules is the English-oriented grammar used to build label patterns.
type Rules struct {
	// InvariableWords are emitted unchanged.
	InvariableWords []string `json:"invariable_words,omitempty" yaml:"invariable_words,omitempty"`

	// Exceptions map a word to a hand-written pattern.
	Exceptions map[string]string `json:"exceptions,omitempty" yaml:"exceptions,omitempty"`

	// Unchanged holds expressions; a word matching any of them is emitted unchanged.
	Unchanged []string `json:"unchanged,omitempty" yaml:"unchanged,omitempty"`

	// Stemming is tried in order; the first rule that alters the word wins.
	Stemming []StemRule `json:"stemming,omitempty" yaml:"stemming,omitempty"`

	// Separators convert punctuation that sits between two words.
	Separators map[string]string `json:"separators,omitempty" yaml:"separators,omitempty"`

	// Symbols convert punctuation that ends a label.
	Symbols map[string]string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
}

// DefaultRules returns the built-in grammar.
func DefaultRules() Rules {
	return Rules{
		InvariableWords: []string{
			"any", "big", "chi", "der", "eta", "few", "low", "new", "non",
			"off", "one", "out", "phi", "psi", "rho", "tau", "two", "van",
			"von", "hard", "weak", "four", "anti", "zero", "sinh", "open",
			"high", "data", "dark", "free", "flux", "fine", "final", "heavy",
			"strange",
		},
		Exceptions: map[string]string{
			"aluminium":  `alumini?um`,
			"aluminum":   `alumini?um`,
			"analysis":   `analy[sz]is`,
			"analyzis":   `analy[sz]is`,
			"behavior":   `behaviou?rs?`,
			"behaviour":  `behaviou?rs?`,
			"color":      `colou?rs?`,
			"colour":     `colou?rs?`,
			"deflexion":  `defle(x|ct)ions?`,
			"flavor":     `flavou?rs?`,
			"flavour":    `flavou?rs?`,
			"gas":        `gas(s?es)?`,
			"lens":       `lens(es)?`,
			"matrix":     `matri(x(es)?|ces)`,
			"muon":       `muons?`,
			"neutrino":   `neutrinos?`,
			"orbit":      `orbits?`,
			"ps":         `ps`,
			"vertex":     `vert(ex(es)?|ices)`,
			"yang mills": `yang-mills`,
		},
		Unchanged: []string{
			`[^e]ed$`,
			`ics?$`,
			`[io]s$`,
			`ium$`,
			`less$`,
			`ous$`,
		},
		Stemming: []StemRule{
			{Match: `ional`, Replace: `ional(ly)?`},
			{Match: `([ae])n(ce|t)$`, Replace: `${1}n(t|ces?)`},
			{Match: `og(ue)?$`, Replace: `og(ue)?s?`},
			{Match: `([^aeiouyc])(re|er)$`, Replace: `${1}(er|re)s?`},
			{Match: `([aeiouy])[sz](ation|ed|es|e|ing)?$`, Replace: `${1}[sz](ation|ed|es|e|ing)?`},
			{Match: `([aeiouy])[sz](ation|ed|es|e|ing)?s$`, Replace: `${1}[sz](ation|ed|es|e|ing)?s?`},
			{Match: `([^aeiou])(y|ies)$`, Replace: `${1}(y|ies)`},
			{Match: `o$`, Replace: `o(e?s)?`},
			{Match: `(x|sh|ch|ss)$`, Replace: `${1}(es)?`},
			{Match: `f$`, Replace: `(f|ves)`},
			{Match: `ung$`, Replace: `ung(en)?`},
			{Match: `([^aiouy])s$`, Replace: `${1}s?`},
			{Match: `([^o])us$`, Replace: `${1}(i|us(es)?)`},
			{Match: `um$`, Replace: `(a|ums?)`},
		},
		Separators: map[string]string{
			" ":  `[\s\n-]`,
			"-":  `[\s\n-]?`,
			"/":  `[/\s]?`,
			"(":  `\s?\(`,
			"*":  `[*\s]?`,
			"- ": `\s?\-\s`,
			"+ ": `\s?\+\s`,
		},
		Symbols: map[string]string{
			"'": `\s?'`,
		},
	}
}

// LoadRules reads a YAML rules file. Sections present in the file replace the
// corresponding built-in section; absent sections keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file %s: %w", path, err)
	}

	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file %s: %w", path, err)
	}

	rules := DefaultRules()
	if override.InvariableWords != nil {
		rules.InvariableWords = override.InvariableWords
	}
	if override.Exceptions != nil {
		rules.Exceptions = override.Exceptions
	}
	if override.Unchanged != nil {
		rules.Unchanged = override.Unchanged
	}
	if override.Stemming != nil {
		rules.Stemming = override.Stemming
	}
	if override.Separators != nil {
		rules.Separators = override.Separators
	}
	if override.Symbols != nil {
		rules.Symbols = override.Symbols
	}
	return rules, nil
}
