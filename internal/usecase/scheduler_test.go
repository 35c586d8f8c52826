package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChannelFeed/internal/infrastructure/storage"
	"ChannelFeed/internal/logging"
	"ChannelFeed/internal/usecase"
)

// manualDriver fires the registered job once per trigger call.
type manualDriver struct {
	job     func(time.Time)
	stopped bool
}

func (d *manualDriver) Start(_ context.Context, job func(time.Time)) error {
	d.job = job
	return nil
}

func (d *manualDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

func (d *manualDriver) trigger() {
	d.job(time.Now())
}

func TestSchedulerRunsPipelineAndSurvivesFailures(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{err: errors.New("connection reset")}
	store := storage.NewMemoryStore()
	driver := &manualDriver{}

	sched := usecase.NewScheduler(driver, newPipeline(fetcher, store), logging.Discard())
	require.NoError(t, sched.Start(context.Background()))

	driver.trigger()
	assert.Zero(t, store.Saves())

	fetcher.err = nil
	fetcher.markup = twoMessagePage
	driver.trigger()

	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, 1, store.Saves())
	assert.Len(t, store.Records(), 1)

	require.NoError(t, sched.Stop(context.Background()))
	assert.True(t, driver.stopped)
}

func TestSchedulerWithoutDriverIsNoop(t *testing.T) {
	t.Parallel()

	sched := usecase.NewScheduler(nil, nil, nil)
	assert.NoError(t, sched.Start(context.Background()))
	assert.NoError(t, sched.Stop(context.Background()))
}
