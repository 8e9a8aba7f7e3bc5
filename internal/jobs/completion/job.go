package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/m04kA/GardenBookingService/internal/domain"
)

// DefaultTimeout upper bound of one run
const DefaultTimeout = 30 * time.Second

// Job marks confirmed and pending bookings of past days as completed.
// Completed bookings still count towards a day's capacity, so cached
// day state stays valid.
type Job struct {
	repo         BookingRepository
	location     *time.Location
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewJob creates the job. "Today" is taken in location.
func NewJob(repo BookingRepository, location *time.Location, logger Logger) *Job {
	if location == nil {
		location = time.UTC
	}
	return &Job{
		repo:         repo,
		location:     location,
		timeout:      DefaultTimeout,
		timeProvider: RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider replaces the clock
func (j *Job) WithTimeProvider(tp TimeProvider) *Job {
	j.timeProvider = tp
	return j
}

// Run closes out every open booking dated before today
func (j *Job) Run(ctx context.Context) (int64, error) {
	today := domain.DateOnly(j.timeProvider.Now().In(j.location))

	n, err := j.repo.CompleteBefore(ctx, today)
	if err != nil {
		j.logger.Error("CompletionJob: failed to complete bookings before %s: %v", today.Format(domain.DateFormat), err)
		return 0, fmt.Errorf("complete bookings before %s: %w", today.Format(domain.DateFormat), err)
	}

	if n > 0 {
		j.logger.Info("CompletionJob: marked %d bookings before %s as completed", n, today.Format(domain.DateFormat))
	}
	return n, nil
}

// Register schedules the job on c
func (j *Job) Register(c *cron.Cron, spec string) (cron.EntryID, error) {
	id, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.Run(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("schedule completion job %q: %w", spec, err)
	}

	j.logger.Info("CompletionJob: scheduled with spec %q", spec)
	return id, nil
}
