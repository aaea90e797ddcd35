// Package faq answers recognized simple queries from a fixed rule list,
// bypassing the LLM entirely. Matching is deterministic keyword containment,
// first match wins; rule order is the priority order.
package faq

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// Entry is one (trigger-set, response) rule.
type Entry struct {
	Keywords []string `yaml:"keywords"`
	Answer   string   `yaml:"answer"`

	// SupportLine appends the direct-contact line before the sign-off.
	SupportLine bool `yaml:"support_line"`
}

type ruleFile struct {
	Rules []Entry `yaml:"rules"`
}

const (
	supportLine = " For direct help, call +91-98765-43210 (Mon–Fri, 10 AM–6 PM IST) or email support@spurstore.com."
	signOff     = " Is there anything else I can help you with?"

	// Messages longer than this are too specific for a canned answer.
	maxMatchableChars = 120

	// A message without a question mark still matches when it has fewer
	// than this many whitespace-delimited tokens.
	shortMessageTokens = 12
)

var entries = mustLoadRules()

func mustLoadRules() []Entry {
	var f ruleFile
	if err := yaml.Unmarshal(rulesYAML, &f); err != nil {
		panic(fmt.Sprintf("faq: invalid embedded rules: %v", err))
	}
	if len(f.Rules) == 0 {
		panic("faq: embedded rules are empty")
	}
	for i := range f.Rules {
		if f.Rules[i].SupportLine {
			f.Rules[i].Answer += supportLine
		}
		f.Rules[i].Answer += signOff
	}
	return f.Rules
}

// Match returns the canned answer for a recognized simple query, or false
// when no rule applies. It has no side effects and makes no external calls.
//
// Short or interrogative messages are assumed to be plain factual lookups;
// anything long or discursive is left to the LLM even when a keyword occurs.
func Match(message string) (string, bool) {
	if utf8.RuneCountInString(message) > maxMatchableChars {
		return "", false
	}

	lower := strings.ToLower(message)
	simple := strings.Contains(lower, "?") || len(strings.Fields(message)) < shortMessageTokens
	if !simple {
		return "", false
	}

	for _, e := range entries {
		for _, k := range e.Keywords {
			if strings.Contains(lower, k) {
				return e.Answer, true
			}
		}
	}
	return "", false
}

// Entries exposes the loaded rule list in priority order.
func Entries() []Entry {
	return entries
}
