package policy

import (
	"context"
	"strings"
)

type matchMode int

const (
	matchExact matchMode = iota
	matchPrefix
	matchSuffix
	matchContains
)

type tokenPattern struct {
	value string
	mode  matchMode
}

func (p tokenPattern) matches(token string) bool {
	switch p.mode {
	case matchPrefix:
		return strings.HasPrefix(token, p.value)
	case matchSuffix:
		return strings.HasSuffix(token, p.value)
	case matchContains:
		return strings.Contains(token, p.value)
	default:
		return token == p.value
	}
}

type phrase struct {
	keyword  string
	patterns []tokenPattern
}

// KeywordChecker matches normalised prompt tokens against a denylist. A keyword may span
// several words; a leading or trailing "*" on a word matches any prefix or suffix, so
// "murder*" covers "murdered" and "*סמים" covers "הסמים".
type KeywordChecker struct {
	phrases []phrase
}

func NewKeywordChecker(keywords []string) *KeywordChecker {
	checker := &KeywordChecker{}
	seen := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		p, ok := compilePhrase(keyword)
		if !ok {
			continue
		}
		if _, dup := seen[p.keyword]; dup {
			continue
		}
		seen[p.keyword] = struct{}{}
		checker.phrases = append(checker.phrases, p)
	}
	return checker
}

func compilePhrase(keyword string) (phrase, bool) {
	words := strings.Fields(keyword)
	patterns := make([]tokenPattern, 0, len(words))
	normalized := make([]string, 0, len(words))
	for _, word := range words {
		leading := strings.HasPrefix(word, "*")
		trailing := strings.HasSuffix(word, "*")
		value := Normalize(strings.Trim(word, "*"))
		if value == "" || strings.Contains(value, " ") {
			continue
		}
		mode := matchExact
		switch {
		case leading && trailing:
			mode = matchContains
		case leading:
			mode = matchSuffix
		case trailing:
			mode = matchPrefix
		}
		patterns = append(patterns, tokenPattern{value: value, mode: mode})
		normalized = append(normalized, render(value, mode))
	}
	if len(patterns) == 0 {
		return phrase{}, false
	}
	return phrase{keyword: strings.Join(normalized, " "), patterns: patterns}, true
}

func render(value string, mode matchMode) string {
	switch mode {
	case matchPrefix:
		return value + "*"
	case matchSuffix:
		return "*" + value
	case matchContains:
		return "*" + value + "*"
	default:
		return value
	}
}

// Len reports how many distinct keywords are loaded.
func (k *KeywordChecker) Len() int {
	return len(k.phrases)
}

// Match returns the first denylisted keyword found in text.
func (k *KeywordChecker) Match(text string) (string, bool) {
	tokens := Tokens(text)
	for _, p := range k.phrases {
		if containsSequence(tokens, p.patterns) {
			return p.keyword, true
		}
	}
	return "", false
}

func (k *KeywordChecker) Check(_ context.Context, text string) (Verdict, error) {
	if keyword, ok := k.Match(text); ok {
		return Verdict{Blocked: true, Reason: ReasonKeyword, Term: keyword}, nil
	}
	return Verdict{}, nil
}

func containsSequence(tokens []string, patterns []tokenPattern) bool {
	for start := 0; start+len(patterns) <= len(tokens); start++ {
		matched := true
		for i, pattern := range patterns {
			if !pattern.matches(tokens[start+i]) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

// DefaultKeywords is the built-in denylist for a children's audience.
var DefaultKeywords = []string{
	// English
	"kill", "kills", "killed", "killing", "murder*", "gun", "guns", "rifle*", "weapon*", "bomb*", "explosive*", "terror*",
	"drug*", "cocaine", "heroin", "meth", "marijuana", "alcohol*", "beer", "vodka", "whiskey",
	"cigarette*", "vape*", "sex*", "porn*", "nude*", "naked", "suicid*", "self harm", "cut myself",
	// Hebrew
	"*להרוג", "*רצח", "*אקדח", "*רובה", "*פצצה", "*סמים", "*אלכוהול", "*סיגריות",
	"*סקס", "*התאבדות", "*פורנו",
	// Arabic
	"*قتل", "*سلاح", "*قنبلة", "*مخدرات", "*كحول", "*انتحار",
	// Russian
	"убить", "убий*", "оружи*", "пистолет*", "бомб*", "наркоти*", "алкогол*", "водк*",
	"секс*", "порн*", "самоубий*",
}
