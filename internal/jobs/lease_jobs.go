package jobs

import (
	"context"
	"errors"

	"leasehold-backend/internal/domain"
	"leasehold-backend/internal/logger"
)

// SweepExpiredLeases reclaims every lease whose term has run out: the deposit
// goes back to the lessee and the posting becomes accessible again. Each
// posting is reclaimed through the lifecycle engine, so a sweep races safely
// with voluntary returns.
func (jr *JobRunner) SweepExpiredLeases() {
	jr.runWithRecovery("SweepExpiredLeases", func() {
		ctx := context.Background()
		height := jr.clock.Height()

		expired, err := jr.leaseRepo.ListExpired(ctx, height)
		if err != nil {
			logger.Error("Failed to list expired leases", "error", err)
			return
		}
		if len(expired) == 0 {
			return
		}

		reclaimed := 0
		for _, l := range expired {
			err := jr.leases.AutoReturnExpired(ctx, l.PostID)
			switch {
			case err == nil:
				reclaimed++
			case errors.Is(err, domain.ErrLeaseEnded), errors.Is(err, domain.ErrLeaseInProgress):
				// Closed or extended since listing; skip.
			default:
				logger.Error("Failed to reclaim expired lease", "post_id", l.PostID, "error", err)
			}
		}

		logger.Info("Swept expired leases", "height", height, "candidates", len(expired), "reclaimed", reclaimed)
	})
}
