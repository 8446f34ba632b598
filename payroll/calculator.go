/*
calculator.go - The payroll calculation pipeline

PURPOSE:
  Turns (employee, clients, events, period, supervision, prior decisions)
  into an immutable PayrollReport. This is the engine that drives the
  matcher: one classification per billable event, then decimal-exact
  accrual into per-client entries.

PIPELINE:
  1. Preconditions    missing employee / inverted period fail fast
  2. Period filter    event start within [Start, End], both inclusive
  3. Billability      skip events that are cancelled AND not pending payment
  4. Classification   prior decision > supervision keyword > EXACT/HIGH
                      client match > uncertain (MEDIUM/LOW) > unmatched
  5. Accrual          counts per client; money computed at assembly with
                      rounding at every step
  6. Assembly         entries in roster order, supervision last, grand
                      totals, unmatched + uncertain lists

DETERMINISM:
  No clock, no randomness. When several clients match at EXACT/HIGH for the
  same event, the first in roster order wins; the tie-break is stable across
  runs. (Arguably such events should be surfaced for review instead; the
  roster-order rule is kept for compatibility with historical reports.)

CONFIRMATION LOOP:
  The engine itself never persists anything. Confirming or rejecting an
  uncertain match is the caller's job (see DecisionStore); the decisions
  come back in on the next run via CalculationInput.Decisions, where a
  confirmation reclassifies the event as a direct match and a rejection
  sends it to the unmatched list.

SEE ALSO:
  - matcher.go: Classification strategies
  - money.go: Rounding rules
*/
package payroll

// CalculationInput bundles one payroll run's inputs. Events, clients and
// decisions are treated as an immutable snapshot for the duration of the
// call.
type CalculationInput struct {
	Employee    Employee
	Clients     []Client
	Events      []CalendarEvent
	Period      Period
	Supervision *SupervisionConfig
	Decisions   []MatchDecision
}

// Calculator computes payroll reports. Stateless; safe for concurrent use.
type Calculator struct {
	Matcher *Matcher
}

// NewCalculator returns a calculator with a default matcher.
func NewCalculator() *Calculator {
	return &Calculator{Matcher: NewMatcher()}
}

func (c *Calculator) matcher() *Matcher {
	if c == nil || c.Matcher == nil {
		return NewMatcher()
	}
	return c.Matcher
}

// CalculatePayroll runs the full pipeline and returns a fresh report.
// The only errors are precondition violations; every matching outcome,
// including "no match at all", is represented in the report itself.
func (c *Calculator) CalculatePayroll(in CalculationInput) (*PayrollReport, error) {
	if in.Employee.ID == "" {
		return nil, ErrMissingEmployee
	}
	if err := in.Period.Validate(); err != nil {
		return nil, err
	}

	matcher := c.matcher()

	names := make([]string, 0, len(in.Clients))
	byName := make(map[string]Client, len(in.Clients))
	for _, cl := range in.Clients {
		names = append(names, cl.Name)
		if _, ok := byName[cl.Name]; !ok {
			byName[cl.Name] = cl
		}
	}

	var keywords []string
	supervised := in.Supervision != nil && in.Supervision.Enabled
	if supervised {
		keywords = in.Supervision.Keywords
		if len(keywords) == 0 {
			keywords = DefaultSupervisionKeywords
		}
	}

	// Prior confirmations/rejections, keyed by normalized title so the
	// decision survives cosmetic retitling.
	decisions := make(map[string]MatchDecision, len(in.Decisions))
	for _, d := range in.Decisions {
		key := Normalize(d.EventTitle)
		if _, ok := decisions[key]; !ok && key != "" {
			decisions[key] = d
		}
	}

	acc := newAccumulator()
	for _, ev := range in.Events {
		if !in.Period.Contains(ev.Start) {
			continue
		}
		if !ev.Billable() {
			continue
		}
		c.classify(acc, ev, matcher, names, byName, keywords, decisions)
	}

	return c.assemble(in, acc), nil
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

type accumulator struct {
	sessions    map[string][]SessionDetail // client name -> counted sessions
	supervision []SessionDetail
	unmatched   []CalendarEvent
	uncertain   []UncertainMatch
}

func newAccumulator() *accumulator {
	return &accumulator{sessions: make(map[string][]SessionDetail)}
}

func (a *accumulator) count(clientName string, ev CalendarEvent) {
	a.sessions[clientName] = append(a.sessions[clientName], sessionDetail(ev))
}

func sessionDetail(ev CalendarEvent) SessionDetail {
	status := SessionCompleted
	if ev.IsPendingPayment {
		status = SessionPendingPayment
	}
	return SessionDetail{Date: ev.Start, Status: status}
}

func (c *Calculator) classify(
	acc *accumulator,
	ev CalendarEvent,
	matcher *Matcher,
	names []string,
	byName map[string]Client,
	keywords []string,
	decisions map[string]MatchDecision,
) {
	// A prior human decision overrides matching entirely.
	if d, ok := decisions[Normalize(ev.Title)]; ok {
		if !d.Accepted {
			acc.unmatched = append(acc.unmatched, ev)
			return
		}
		if _, onRoster := byName[d.ClientName]; onRoster {
			acc.count(d.ClientName, ev)
			return
		}
		// Confirmed against a client that has since left the roster.
		acc.unmatched = append(acc.unmatched, ev)
		return
	}

	results := matcher.FindClientMatchesWithConfidence(ev.Title, names, keywords)
	if len(results) == 0 {
		acc.unmatched = append(acc.unmatched, ev)
		return
	}

	if results[0].IsSpecialKeyword() {
		acc.supervision = append(acc.supervision, sessionDetail(ev))
		return
	}

	// Auto-accept the first EXACT/HIGH hit; results come back in roster
	// order, so multi-client ambiguity resolves to the first roster entry.
	for _, r := range results {
		if r.Confidence.AutoAccept() {
			acc.count(r.ClientName, ev)
			return
		}
	}

	// Only MEDIUM/LOW candidates remain: hold the best one for review.
	best := results[0]
	for _, r := range results[1:] {
		if r.Confidence > best.Confidence {
			best = r
		}
	}
	acc.uncertain = append(acc.uncertain, UncertainMatch{
		EventID:    ev.ID,
		EventTitle: ev.Title,
		EventStart: ev.Start,
		Candidate:  best,
	})
}

// =============================================================================
// REPORT ASSEMBLY
// =============================================================================

// SupervisionEntryName labels the synthetic supervision report entry.
const SupervisionEntryName = "supervision"

func (c *Calculator) assemble(in CalculationInput, acc *accumulator) *PayrollReport {
	report := &PayrollReport{
		EmployeeID:       in.Employee.ID,
		EmployeeName:     in.Employee.Name,
		Period:           in.Period,
		UnmatchedEvents:  acc.unmatched,
		UncertainMatches: acc.uncertain,
	}

	seen := make(map[string]bool, len(in.Clients))
	for _, cl := range in.Clients {
		details := acc.sessions[cl.Name]
		if len(details) == 0 || seen[cl.Name] {
			continue
		}
		seen[cl.Name] = true
		addEntry(report, PayrollReportEntry{
			ClientName:    cl.Name,
			Price:         cl.Price,
			EmployeePrice: cl.EmployeePrice,
			CompanyPrice:  cl.CompanyPrice,
		}, details)
	}

	if len(acc.supervision) > 0 && in.Supervision != nil {
		addEntry(report, PayrollReportEntry{
			ClientName:    SupervisionEntryName,
			Supervision:   true,
			Price:         in.Supervision.Price,
			EmployeePrice: in.Supervision.EmployeePrice,
			CompanyPrice:  in.Supervision.CompanyPrice,
		}, acc.supervision)
	}

	return report
}

func addEntry(report *PayrollReport, entry PayrollReportEntry, details []SessionDetail) {
	n := len(details)
	entry.Sessions = n
	entry.Details = details
	entry.Revenue = MultiplyAndRound(entry.Price, n)
	entry.EmployeeEarnings = MultiplyAndRound(entry.EmployeePrice, n)
	entry.CompanyEarnings = MultiplyAndRound(entry.CompanyPrice, n)

	report.Entries = append(report.Entries, entry)
	report.TotalSessions += n
	report.TotalRevenue = AddAndRound(report.TotalRevenue, entry.Revenue)
	report.TotalEmployeeEarnings = AddAndRound(report.TotalEmployeeEarnings, entry.EmployeeEarnings)
	report.TotalCompanyEarnings = AddAndRound(report.TotalCompanyEarnings, entry.CompanyEarnings)
}
