package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dferrante/anchorline/internal/core/dateutil"
	"github.com/dferrante/anchorline/internal/core/domain"
	"github.com/dferrante/anchorline/internal/core/streaks"
	"github.com/dferrante/anchorline/internal/metrics"
)

// lookbackMonths is the default ledger scan window. Wider contribution
// requests widen the scan in Summary.
const lookbackMonths = 3

type StreakService struct {
	streakRepo domain.StreakRepository
	logger     *zap.Logger
}

func NewStreakService(streakRepo domain.StreakRepository, logger *zap.Logger) *StreakService {
	return &StreakService{streakRepo: streakRepo, logger: logger}
}

// Summary loads the recent ledger rows and derives the full streak payload.
// Nothing is cached; every read recomputes from the stored counts.
func (s *StreakService) Summary(ctx context.Context, userID string, weeks int) (*domain.StreakSummary, error) {
	now := time.Now().UTC()

	since := dateutil.ToUTCMidnight(now.AddDate(0, -lookbackMonths, 0))
	if weeks > lookbackMonths*5 {
		since = dateutil.AddDaysUTC(dateutil.ToUTCMidnight(now), -(weeks*7 + 7))
	}

	records, err := s.streakRepo.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	summary := streaks.BuildSummary(records, weeks, now)
	metrics.ObserveStreakCompute(time.Since(start))

	return summary, nil
}

// ResetStreaks wipes the user's ledger. Development tooling only; the
// handler refuses it outside dev environments.
func (s *StreakService) ResetStreaks(ctx context.Context, userID string) error {
	if err := s.streakRepo.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Warn("streak ledger reset", zap.String("user_id", userID))
	return nil
}
