package jobs

import (
	"context"

	"github.com/PatrickVM/in-house-open-sub001/internal/logger"
)

// RunEnforcementCycle drives one pass of the membership enforcement state
// machine: day-5 warnings and day-7 disablements. The underlying service is
// idempotent, so overlapping or repeated runs within a day are harmless.
func (jr *JobRunner) RunEnforcementCycle() {
	jr.runWithRecovery("RunEnforcementCycle", func() {
		ctx := context.Background()

		summary, err := jr.enforcement.RunCycle(ctx)
		if err != nil {
			logger.Error("Enforcement cycle failed", "error", err)
			return
		}

		logger.Info("Enforcement cycle summary",
			"run_id", summary.RunID,
			"warnings_processed", summary.WarningsProcessed,
			"accounts_disabled", summary.AccountsDisabled,
			"error_count", len(summary.Errors))
		for _, e := range summary.Errors {
			logger.Warn("Enforcement cycle error", "run_id", summary.RunID, "detail", e)
		}
	})
}
