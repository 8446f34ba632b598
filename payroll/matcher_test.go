/*
matcher_test.go - Specification tests for the matching strategy ladder

Each test pins one strategy or edge of the ladder: keyword short-circuit,
full-name EXACT, reversed HIGH, hyphen-alias HIGH, single-name MEDIUM,
first-name LOW, and the deliberate absence of surname-only matching.
*/
package payroll_test

import (
	"testing"

	"github.com/fkanellos/PayrollDesktop-sub001/payroll"
)

func newMatcher() *payroll.Matcher {
	return payroll.NewMatcher()
}

func singleResult(t *testing.T, results []payroll.ClientMatchResult) payroll.ClientMatchResult {
	t.Helper()
	if len(results) != 1 {
		t.Fatalf("expected exactly 1 result, got %d: %+v", len(results), results)
	}
	return results[0]
}

// =============================================================================
// STRATEGY PRECEDENCE
// =============================================================================

func TestMatcher_FullName_Exact(t *testing.T) {
	// GIVEN: client "John Doe"
	// WHEN: the title contains the full name
	// THEN: EXACT match
	r := singleResult(t, newMatcher().FindClientMatchesWithConfidence(
		"John Doe", []string{"John Doe"}, nil))

	if r.Confidence != payroll.ConfidenceExact {
		t.Errorf("expected EXACT, got %v", r.Confidence)
	}
	if r.ClientName != "John Doe" {
		t.Errorf("expected client John Doe, got %q", r.ClientName)
	}
}

func TestMatcher_CaseAndAccentInsensitive(t *testing.T) {
	m := newMatcher()

	for _, title := range []string{"JOHN DOE", "Jóhn Dóe", "john doe session 3"} {
		names := m.FindClientMatches(title, []string{"John Doe"})
		if len(names) != 1 || names[0] != "John Doe" {
			t.Errorf("title %q: expected [John Doe], got %v", title, names)
		}
	}
}

func TestMatcher_ReversedOrder_High(t *testing.T) {
	// GIVEN: client "John Doe"
	// WHEN: the title is written surname-first
	// THEN: HIGH match via the reversed strategy
	r := singleResult(t, newMatcher().FindClientMatchesWithConfidence(
		"Doe John", []string{"John Doe"}, nil))

	if r.Confidence != payroll.ConfidenceHigh {
		t.Errorf("expected HIGH, got %v", r.Confidence)
	}
	if r.Reason != payroll.ReasonReversedName {
		t.Errorf("expected reversed-name reason, got %q", r.Reason)
	}
}

func TestMatcher_FirstNameOnly_Low_WordBoundary(t *testing.T) {
	m := newMatcher()

	// "John" alone matches as a whole word at LOW.
	r := singleResult(t, m.FindClientMatchesWithConfidence(
		"John", []string{"John Doe"}, nil))
	if r.Confidence != payroll.ConfidenceLow {
		t.Errorf("expected LOW, got %v", r.Confidence)
	}
	if !payroll.RequiresConfirmation(r) {
		t.Error("LOW match must require confirmation")
	}

	// "Johnson" must NOT match: substring but not a whole word.
	if got := m.FindClientMatchesWithConfidence("Johnson appointment", []string{"John Doe"}, nil); len(got) != 0 {
		t.Errorf("expected no match for embedded first name, got %+v", got)
	}
}

func TestMatcher_ShortFirstName_NotMatched(t *testing.T) {
	// First-name-only matching needs > 3 characters to be distinctive.
	if got := newMatcher().FindClientMatchesWithConfidence("Ana session", []string{"Ana Dimitriou"}, nil); len(got) != 0 {
		t.Errorf("expected no LOW match for 3-char first name, got %+v", got)
	}
}

func TestMatcher_SurnameOnly_Disabled(t *testing.T) {
	// A bare surname is more likely a relative than a misspelling;
	// surname-only matching stays off.
	if got := newMatcher().FindClientMatchesWithConfidence("Doe", []string{"John Doe"}, nil); len(got) != 0 {
		t.Errorf("expected no match for bare surname, got %+v", got)
	}
}

func TestMatcher_SingleTokenName_Medium(t *testing.T) {
	// GIVEN: a client whose name is a single word
	// THEN: substring containment matches at MEDIUM
	r := singleResult(t, newMatcher().FindClientMatchesWithConfidence(
		"session with Madonna today", []string{"Madonna"}, nil))

	if r.Confidence != payroll.ConfidenceMedium {
		t.Errorf("expected MEDIUM, got %v", r.Confidence)
	}
	if r.Reason != payroll.ReasonSingleName {
		t.Errorf("expected single-name reason, got %q", r.Reason)
	}
}

func TestMatcher_HyphenAlias_High(t *testing.T) {
	// GIVEN: a client recorded with a transliterated alias
	// WHEN: the title uses only one side of the alias
	// THEN: HIGH match via the alternate-name strategy
	r := singleResult(t, newMatcher().FindClientMatchesWithConfidence(
		"Maria Pappas 10:00", []string{"Μαρία Παππά-Maria Pappas"}, nil))

	if r.Confidence != payroll.ConfidenceHigh {
		t.Errorf("expected HIGH, got %v", r.Confidence)
	}
	if r.Reason != payroll.ReasonAlternateName {
		t.Errorf("expected alternate-name reason, got %q", r.Reason)
	}
}

func TestMatcher_NameWithTrailingQualifiers_StillExact(t *testing.T) {
	// Client names are truncated to first+last for matching, so trailing
	// annotations on the roster entry don't break EXACT matching.
	r := singleResult(t, newMatcher().FindClientMatchesWithConfidence(
		"John Doe", []string{"John Doe (card)"}, nil))

	if r.Confidence != payroll.ConfidenceExact {
		t.Errorf("expected EXACT, got %v", r.Confidence)
	}
}

// =============================================================================
// SPECIAL KEYWORDS
// =============================================================================

func TestMatcher_SpecialKeyword_ShortCircuits(t *testing.T) {
	// GIVEN: a supervision keyword and clients that would otherwise match
	// WHEN: the keyword appears in the title
	// THEN: exactly one EXACT keyword result, no client results
	results := newMatcher().FindClientMatchesWithConfidence(
		"Supervision with John Doe",
		[]string{"John Doe", "Jane Roe"},
		[]string{"supervision"},
	)

	r := singleResult(t, results)
	if r.Confidence != payroll.ConfidenceExact {
		t.Errorf("expected EXACT, got %v", r.Confidence)
	}
	if !r.IsSpecialKeyword() {
		t.Errorf("expected a special keyword result, got %+v", r)
	}
}

func TestMatcher_GreekKeyword_AccentInsensitive(t *testing.T) {
	// "Εποπτεία" in the title must hit the configured Greek keyword even
	// with different accents/case.
	results := newMatcher().FindClientMatchesWithConfidence(
		"ΕΠΟΠΤΕΙΑ Μαρία", []string{"Μαρία Παππά"}, []string{"εποπτεία"})

	r := singleResult(t, results)
	if !r.IsSpecialKeyword() {
		t.Errorf("expected keyword result, got %+v", r)
	}
}

// =============================================================================
// MULTI-CLIENT AND EDGE CASES
// =============================================================================

func TestMatcher_MultipleClients_AllReturned(t *testing.T) {
	// A title mentioning two clients yields a result per client, in roster
	// order.
	results := newMatcher().FindClientMatchesWithConfidence(
		"John Doe and Jane Roe joint session",
		[]string{"John Doe", "Jane Roe"},
		nil,
	)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}
	if results[0].ClientName != "John Doe" || results[1].ClientName != "Jane Roe" {
		t.Errorf("results out of roster order: %+v", results)
	}
}

func TestMatcher_OneStrategyPerClient(t *testing.T) {
	// A client matching at EXACT must not also surface lower-tier results.
	results := newMatcher().FindClientMatchesWithConfidence(
		"John Doe", []string{"John Doe"}, nil)

	if len(results) != 1 {
		t.Errorf("expected a single result per client, got %+v", results)
	}
}

func TestMatcher_BlankTitle_NoMatches(t *testing.T) {
	m := newMatcher()
	for _, title := range []string{"", "   ", "\t"} {
		if got := m.FindClientMatchesWithConfidence(title, []string{"John Doe"}, []string{"supervision"}); got != nil {
			t.Errorf("blank title %q: expected nil, got %+v", title, got)
		}
	}
}

func TestMatcher_EmptyRoster_NoMatches(t *testing.T) {
	if got := newMatcher().FindClientMatchesWithConfidence("John Doe", nil, nil); got != nil {
		t.Errorf("expected nil for empty roster, got %+v", got)
	}
}

func TestMatcher_FindClientMatches_FiltersAndDedupes(t *testing.T) {
	// FindClientMatches keeps only auto-acceptable tiers.
	m := newMatcher()

	names := m.FindClientMatches("John visit", []string{"John Doe"})
	if len(names) != 0 {
		t.Errorf("LOW matches must not pass the legacy filter, got %v", names)
	}

	names = m.FindClientMatches("Doe John", []string{"John Doe"})
	if len(names) != 1 || names[0] != "John Doe" {
		t.Errorf("expected [John Doe], got %v", names)
	}
}

func TestMatcher_UncertainMatches_Filter(t *testing.T) {
	m := newMatcher()
	results := m.FindClientMatchesWithConfidence(
		"John and Madonna",
		[]string{"John Doe", "Madonna", "Jane Roe"},
		nil,
	)

	uncertain := m.UncertainMatches(results)
	for _, r := range uncertain {
		if !payroll.RequiresConfirmation(r) {
			t.Errorf("non-uncertain result leaked through: %+v", r)
		}
	}
	if len(uncertain) != 2 { // John Doe at LOW, Madonna at MEDIUM
		t.Errorf("expected 2 uncertain candidates, got %+v", uncertain)
	}
}
