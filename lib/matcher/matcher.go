// Package matcher finds occurrences of vocabulary phrases in token streams.
//
// A Matcher is built once from a list of phrases and is read only afterwards,
// so it can be shared between goroutines without locking.
package matcher

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"gitlab.mdcatapult.io/informatics/software-engineering/software-mentions/lib/text"
	"golang.org/x/text/unicode/norm"
)

type node struct {
	children map[string]*node
	terminal bool
}

func (n *node) child(key string) *node {
	if n.children == nil {
		return nil
	}
	return n.children[key]
}

type Matcher struct {
	root          *node
	tokens        map[string]struct{}
	caseSensitive bool
	phrases       int
}

// New builds a matcher over phrases. Each phrase is tokenized with the same
// analyzer applied at query time and whitespace tokens are ignored.
func New(caseSensitive bool, phrases ...string) *Matcher {
	m := &Matcher{
		root:          &node{},
		tokens:        make(map[string]struct{}),
		caseSensitive: caseSensitive,
	}
	for _, phrase := range phrases {
		m.add(phrase)
	}
	return m
}

// Load builds a matcher from newline delimited phrases. Empty lines are skipped.
func Load(r io.Reader, caseSensitive bool) (*Matcher, error) {
	var phrases []string
	scn := bufio.NewScanner(r)
	for scn.Scan() {
		line := strings.TrimSpace(scn.Text())
		if line == "" {
			continue
		}
		phrases = append(phrases, line)
	}
	if err := scn.Err(); err != nil {
		return nil, err
	}
	return New(caseSensitive, phrases...), nil
}

func (m *Matcher) key(s string) string {
	s = norm.NFC.String(s)
	if !m.caseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

func (m *Matcher) add(phrase string) {
	words := text.TokenizeWords(phrase)
	if len(words) == 0 {
		return
	}

	current := m.root
	for _, w := range words {
		k := m.key(w)
		if utf8.RuneCountInString(w) > 1 {
			m.tokens[k] = struct{}{}
		}
		next := current.child(k)
		if next == nil {
			if current.children == nil {
				current.children = make(map[string]*node)
			}
			next = &node{}
			current.children[k] = next
		}
		current = next
	}
	if !current.terminal {
		current.terminal = true
		m.phrases++
	}
}

// Contains reports whether token is one of the vocabulary tokens longer than one character.
func (m *Matcher) Contains(token string) bool {
	_, ok := m.tokens[m.key(token)]
	return ok
}

// Size returns the number of distinct phrases.
func (m *Matcher) Size() int {
	return m.phrases
}

// CaseSensitive reports how vocabulary and query tokens are compared.
func (m *Matcher) CaseSensitive() bool {
	return m.caseSensitive
}

// Match scans tokens left to right and returns inclusive token-index spans of
// vocabulary phrases. At each position the longest phrase wins and scanning
// resumes after it, so results never overlap. Blank tokens are skipped: they
// neither start nor break a match.
func (m *Matcher) Match(tokens []text.Token) []text.OffsetPosition {
	// indices of the tokens that take part in matching
	content := make([]int, 0, len(tokens))
	for i, t := range tokens {
		if !t.IsBlank() {
			content = append(content, i)
		}
	}

	var results []text.OffsetPosition
	for p := 0; p < len(content); {
		longest := -1
		current := m.root
		for q := p; q < len(content); q++ {
			current = current.child(m.key(tokens[content[q]].Text))
			if current == nil {
				break
			}
			if current.terminal {
				longest = q
			}
		}

		if longest < 0 {
			p++
			continue
		}
		results = append(results, text.OffsetPosition{Start: content[p], End: content[longest]})
		p = longest + 1
	}

	return results
}

// MatchLabeled matches over tagger pairs; spans index into pairs.
func (m *Matcher) MatchLabeled(pairs []text.LabeledToken) []text.OffsetPosition {
	return m.Match(text.FromLabeled(pairs))
}
