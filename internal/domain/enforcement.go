package domain

// EnforcementSummary is the full result of one enforcement cycle. Every run
// reports totals for the whole pass, never a delta, so re-invocations are
// safe to compare.
type EnforcementSummary struct {
	RunID             string   `json:"run_id"`
	WarningsProcessed int      `json:"warnings_processed"`
	AccountsDisabled  int      `json:"accounts_disabled"`
	Errors            []string `json:"errors"`
}
