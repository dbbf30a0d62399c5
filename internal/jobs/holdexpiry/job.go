package holdexpiry

import (
	"context"
	"fmt"
	"time"

	cron "github.com/robfig/cron/v3"
)

// HoldExpirer отменяет просроченные hold-бронирования
type HoldExpirer interface {
	ExpireHolds(ctx context.Context, olderThan time.Time) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const defaultRunTimeout = 30 * time.Second

// Job периодически снимает hold-бронирования старше ttl.
// Снятые этапы отменяются вместе со своей группой.
type Job struct {
	expirer HoldExpirer
	ttl     time.Duration
	spec    string
	now     func() time.Time
	logger  Logger

	cron *cron.Cron
}

// New создает задачу; spec в формате cron ("*/5 * * * *", "@every 1m")
func New(expirer HoldExpirer, ttl time.Duration, spec string, location *time.Location, logger Logger) (*Job, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("holdexpiry: ttl must be positive, got %s", ttl)
	}
	if location == nil {
		location = time.UTC
	}

	j := &Job{
		expirer: expirer,
		ttl:     ttl,
		spec:    spec,
		now:     time.Now,
		logger:  logger,
		cron:    cron.New(cron.WithLocation(location)),
	}

	if _, err := j.cron.AddFunc(spec, func() { j.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("holdexpiry: invalid schedule %q: %w", spec, err)
	}

	return j, nil
}

// Start запускает планировщик в фоне
func (j *Job) Start() {
	j.cron.Start()
	j.logger.Info("Hold expiry job started: schedule=%q ttl=%s", j.spec, j.ttl)
}

// Stop останавливает планировщик и ждёт завершения текущего запуска
func (j *Job) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
		j.logger.Info("Hold expiry job stopped")
	case <-ctx.Done():
		j.logger.Warn("Hold expiry job stop timed out: %v", ctx.Err())
	}
}

// Run выполняет один проход: отменяет hold, созданные раньше now-ttl
func (j *Job) Run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cutoff := j.now().Add(-j.ttl)

	n, err := j.expirer.ExpireHolds(ctx, cutoff)
	if err != nil {
		j.logger.Error("Hold expiry run failed: %v", err)
		return 0
	}
	if n > 0 {
		j.logger.Info("Hold expiry run cancelled %d legs", n)
	}
	return n
}
