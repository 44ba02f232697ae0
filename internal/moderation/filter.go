// Package moderation implements the automated room moderator: content
// filtering, activity tracking, profanity strikes, and the inactivity
// engine that keeps quiet rooms alive.
package moderation

import (
	"regexp"
	"strings"
)

// redactionMask replaces every matched term in stored and broadcast text.
const redactionMask = "****"

// defaultDenylist is the built-in set of disallowed terms. Entries may be
// multi-word phrases; matching is case-insensitive on word boundaries.
var defaultDenylist = []string{
	"fuck", "shit", "bitch", "asshole", "bastard", "dick", "piss", "cunt",
	"crap", "slut", "whore", "fag", "nigger", "retard", "motherfucker", "cock",
	"fucker", "douche", "bollocks", "arsehole", "twat", "wanker", "suck my", "dickhead",
	"puta", "mierda", "idiot", "moron", "jackass", "dumbass", "prick", "skank",
	"cum", "shithead", "dildo", "bastardo", "imbécil", "coño", "chingada", "pendejo",
	"verga", "malparido", "zorra", "estúpido", "puta madre", "mierdoso", "tonto", "culero",
	"asshat", "nutsack", "buttfuck", "shitface", "cockhead", "fuckface", "fucktard", "cocksucker",
	"dickface", "cumdumpster", "fucknut", "asswipe", "crackhead", "tard", "hoe", "knobhead",
}

// Filter detects and redacts disallowed terms. Detection and redaction use
// the same word-boundary pattern, so any message that trips a strike is
// guaranteed to be stored with its matched terms masked.
type Filter struct {
	pattern *regexp.Regexp
}

// NewFilter returns a Filter using the built-in denylist.
func NewFilter() *Filter {
	return NewFilterWithTerms(defaultDenylist)
}

// NewFilterWithTerms returns a Filter for a custom denylist.
func NewFilterWithTerms(terms []string) *Filter {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(term))
	}
	pattern := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return &Filter{pattern: pattern}
}

// ContainsViolation reports whether the text contains a disallowed term.
func (f *Filter) ContainsViolation(text string) bool {
	return f.pattern.MatchString(text)
}

// Redact replaces every disallowed term with the redaction mask.
func (f *Filter) Redact(text string) string {
	return f.pattern.ReplaceAllString(text, redactionMask)
}
