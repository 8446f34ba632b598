/*
matcher.go - Confidence-scored client name matching

PURPOSE:
  Decides which client, if any, a free-text calendar event title refers to.
  Titles are written by hand ("Μαρια παπαδοπουλου", "John Doe - card",
  "Doe John"), so matching runs a fixed ladder of strategies from strict to
  permissive and labels every hit with a confidence tier.

STRATEGY LADDER (strict priority, first hit wins per client):
  1. Special keyword     EXACT   "supervision" et al. short-circuit the
                                 whole function: one result, no client scan
  2. Full name substring EXACT   first two tokens of the client name appear
                                 in the title
  3. Single-token name   MEDIUM  client name is one word; plain containment
  4. Reversed order      HIGH    "last first" appears (surname-first titles)
  5. Hyphenated alias    HIGH    client name carries a "-" alias; each side
                                 tested separately
  6. First name only     LOW     first token (>3 chars) appears as a whole
                                 word; needs human confirmation

  Surname-only matching is deliberately absent: a bare surname hit is more
  likely a relative than a misspelling, so it was removed to avoid
  cross-sibling false positives. Do not re-add it without that guard.

CONFIDENCE SEMANTICS:
  EXACT and HIGH are auto-accepted by the calculator. MEDIUM and LOW are
  surfaced as uncertain matches and excluded from totals until confirmed.

SEE ALSO:
  - normalize.go: The canonical form every comparison runs on
  - calculator.go: Consumes match results per event
*/
package payroll

import "strings"

// =============================================================================
// CONFIDENCE TIERS
// =============================================================================

// MatchConfidence orders match trustworthiness: Exact > High > Medium > Low > None.
type MatchConfidence int

const (
	ConfidenceNone MatchConfidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
	ConfidenceExact
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceExact:
		return "exact"
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// AutoAccept reports whether a match at this tier counts without human review.
func (c MatchConfidence) AutoAccept() bool {
	return c == ConfidenceExact || c == ConfidenceHigh
}

// Reason strings attached to match results. ReasonSpecialKeyword also tells
// the calculator that a result names a keyword, not a roster client.
const (
	ReasonSpecialKeyword = "special keyword"
	ReasonFullName       = "full name"
	ReasonSingleName     = "single name"
	ReasonReversedName   = "reversed name"
	ReasonAlternateName  = "alternate name"
	ReasonFirstNameOnly  = "first name only, needs confirmation"
)

// ClientMatchResult is one candidate produced for an event title.
type ClientMatchResult struct {
	ClientName  string
	Confidence  MatchConfidence
	MatchedText string
	Reason      string
}

// IsSpecialKeyword reports whether this result matched a configured keyword
// rather than a roster client.
func (r ClientMatchResult) IsSpecialKeyword() bool {
	return r.Reason == ReasonSpecialKeyword
}

// RequiresConfirmation reports whether the result must be confirmed by a
// human before it affects totals.
func RequiresConfirmation(r ClientMatchResult) bool {
	return r.Confidence == ConfidenceMedium || r.Confidence == ConfidenceLow
}

// =============================================================================
// MATCHER
// =============================================================================

// Matcher runs the strategy ladder. The zero value is ready to use.
type Matcher struct {
	// MaxNameWords caps how many leading name tokens participate in
	// matching. Zero means DefaultMatchWords.
	MaxNameWords int
}

// NewMatcher returns a matcher with default settings.
func NewMatcher() *Matcher {
	return &Matcher{MaxNameWords: DefaultMatchWords}
}

func (m *Matcher) maxWords() int {
	if m == nil || m.MaxNameWords <= 0 {
		return DefaultMatchWords
	}
	return m.MaxNameWords
}

// FindClientMatchesWithConfidence evaluates every client against the title
// and returns all candidates, each at the best tier its strategies reached.
// A configured special keyword short-circuits everything: the result is a
// single EXACT entry for the keyword and no client is examined.
//
// Total function: blank titles and empty rosters yield nil, never an error.
func (m *Matcher) FindClientMatchesWithConfidence(title string, clientNames []string, specialKeywords []string) []ClientMatchResult {
	normTitle := Normalize(title)
	if normTitle == "" {
		return nil
	}

	for _, kw := range specialKeywords {
		nk := Normalize(kw)
		if nk != "" && strings.Contains(normTitle, nk) {
			return []ClientMatchResult{{
				ClientName:  kw,
				Confidence:  ConfidenceExact,
				MatchedText: nk,
				Reason:      ReasonSpecialKeyword,
			}}
		}
	}

	var results []ClientMatchResult
	for _, name := range clientNames {
		full := NormalizeForMatching(name, m.maxWords())
		if full == "" {
			continue
		}

		// Strategy 2: full name ("first last") as substring.
		if strings.Contains(normTitle, full) {
			results = append(results, ClientMatchResult{
				ClientName:  name,
				Confidence:  ConfidenceExact,
				MatchedText: full,
				Reason:      ReasonFullName,
			})
			continue
		}

		tokens := strings.Fields(full)

		// Strategy 3: single-token client names match by containment only.
		// Word-boundary first-name matching below would be the same token,
		// so a miss here is a miss outright.
		if len(tokens) == 1 {
			if strings.Contains(normTitle, tokens[0]) {
				results = append(results, ClientMatchResult{
					ClientName:  name,
					Confidence:  ConfidenceMedium,
					MatchedText: tokens[0],
					Reason:      ReasonSingleName,
				})
			}
			continue
		}

		// Strategy 4: reversed "last first" for surname-first titles.
		reversed := tokens[len(tokens)-1] + " " + tokens[0]
		if strings.Contains(normTitle, reversed) {
			results = append(results, ClientMatchResult{
				ClientName:  name,
				Confidence:  ConfidenceHigh,
				MatchedText: reversed,
				Reason:      ReasonReversedName,
			})
			continue
		}

		// Strategy 5: hyphen in the raw name marks an alias (e.g. a
		// transliterated alternate spelling); each side is a candidate.
		if strings.Contains(name, "-") {
			if alt, ok := m.matchAlternate(normTitle, name); ok {
				results = append(results, ClientMatchResult{
					ClientName:  name,
					Confidence:  ConfidenceHigh,
					MatchedText: alt,
					Reason:      ReasonAlternateName,
				})
				continue
			}
		}

		// Strategy 6: first name alone, whole-word only, and only when the
		// token is long enough to be distinctive.
		first := tokens[0]
		if len([]rune(first)) > 3 && containsWord(normTitle, first) {
			results = append(results, ClientMatchResult{
				ClientName:  name,
				Confidence:  ConfidenceLow,
				MatchedText: first,
				Reason:      ReasonFirstNameOnly,
			})
		}
	}
	return results
}

// FindClientMatches returns only auto-acceptable (EXACT/HIGH) client names,
// deduplicated, in roster order.
func (m *Matcher) FindClientMatches(title string, clientNames []string) []string {
	results := m.FindClientMatchesWithConfidence(title, clientNames, nil)
	seen := make(map[string]bool, len(results))
	var names []string
	for _, r := range results {
		if !r.Confidence.AutoAccept() || seen[r.ClientName] {
			continue
		}
		seen[r.ClientName] = true
		names = append(names, r.ClientName)
	}
	return names
}

// UncertainMatches filters results down to the candidates that require
// human confirmation (MEDIUM/LOW).
func (m *Matcher) UncertainMatches(results []ClientMatchResult) []ClientMatchResult {
	var uncertain []ClientMatchResult
	for _, r := range results {
		if RequiresConfirmation(r) {
			uncertain = append(uncertain, r)
		}
	}
	return uncertain
}

// matchAlternate splits a hyphenated client name and tests each part as a
// full name. First hit wins.
func (m *Matcher) matchAlternate(normTitle, rawName string) (string, bool) {
	for _, part := range strings.Split(rawName, "-") {
		alt := NormalizeForMatching(part, m.maxWords())
		if alt != "" && strings.Contains(normTitle, alt) {
			return alt, true
		}
	}
	return "", false
}

// containsWord reports whether word occurs in haystack bounded by spaces or
// string edges. Both strings are already normalized, so the separator is
// always a single ASCII space.
func containsWord(haystack, word string) bool {
	for idx := 0; idx <= len(haystack)-len(word); {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		leftOK := start == 0 || haystack[start-1] == ' '
		rightOK := end == len(haystack) || haystack[end] == ' '
		if leftOK && rightOK {
			return true
		}
		idx = start + 1
	}
	return false
}
