package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"StockDashboard/internal/collector"
	"StockDashboard/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAlerter struct {
	mock.Mock
}

func (m *MockAlerter) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	args := m.Called(ctx, text, maxRetries)
	return args.Error(0)
}

type MockRecorder struct {
	mock.Mock
	recorder.NoopRecorder
}

func (m *MockRecorder) RecordProbe(evt *recorder.ProbeEvent) error {
	args := m.Called(evt)
	return args.Error(0)
}

func (m *MockRecorder) Prune(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func newTestScheduler(fetcher *collector.MockFetcher, alerter Alerter, rec recorder.Recorder) *Scheduler {
	s := NewScheduler(context.Background(), collector.NewCollector(fetcher), alerter, rec, "AAPL", 30*24*time.Hour)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestProbe_AlertsOnlyOnTransitions(t *testing.T) {
	fetcher := &collector.MockFetcher{Price: 100}
	alerter := &MockAlerter{}
	rec := &MockRecorder{}
	rec.On("RecordProbe", mock.Anything).Return(nil)

	s := newTestScheduler(fetcher, alerter, rec)
	assert.True(t, s.Healthy())

	// healthy -> healthy: nothing sent
	s.RunProbeNow()
	assert.True(t, s.Healthy())
	alerter.AssertNotCalled(t, "SendWithRetry", mock.Anything, mock.Anything, mock.Anything)

	// healthy -> down: one alert
	fetcher.Err = errors.New("connection reset")
	alerter.On("SendWithRetry", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "unavailable") && strings.Contains(s, "connection reset")
	}), 3).Return(nil).Once()
	s.RunProbeNow()
	assert.False(t, s.Healthy())

	// down -> down: no repeat
	s.RunProbeNow()

	// down -> healthy: recovery notice
	fetcher.Err = nil
	alerter.On("SendWithRetry", mock.Anything, mock.MatchedBy(func(s string) bool {
		return strings.Contains(s, "restored")
	}), 3).Return(nil).Once()
	s.RunProbeNow()
	assert.True(t, s.Healthy())

	alerter.AssertNumberOfCalls(t, "SendWithRetry", 2)
	rec.AssertNumberOfCalls(t, "RecordProbe", 4)

	okEvt := rec.Calls[0].Arguments.Get(0).(*recorder.ProbeEvent)
	assert.True(t, okEvt.OK)
	assert.Equal(t, "mock", okEvt.Provider)
	failEvt := rec.Calls[1].Arguments.Get(0).(*recorder.ProbeEvent)
	assert.False(t, failEvt.OK)
	assert.Contains(t, failEvt.Error, "connection reset")
}

func TestProbe_NoAlerterConfigured(t *testing.T) {
	fetcher := &collector.MockFetcher{Err: errors.New("down")}
	s := newTestScheduler(fetcher, nil, recorder.NewNoopRecorder())
	s.RunProbeNow()
	assert.False(t, s.Healthy())
}

func TestPrune_UsesRetention(t *testing.T) {
	rec := &MockRecorder{}
	expected := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	rec.On("Prune", expected).Return(int64(12), nil).Once()

	s := newTestScheduler(&collector.MockFetcher{}, nil, rec)
	s.pruneTask()
	rec.AssertExpectations(t)

	s.Retention = 0
	s.pruneTask()
	rec.AssertNumberOfCalls(t, "Prune", 1)
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(&collector.MockFetcher{}, nil, recorder.NewNoopRecorder())
	require.NoError(t, s.RegisterAll("0 */15 * * * *", "0 0 3 * * *"))
	assert.Len(t, s.Cron.Entries(), 2)

	s = newTestScheduler(&collector.MockFetcher{}, nil, recorder.NewNoopRecorder())
	assert.Error(t, s.RegisterAll("not a cron", "0 0 3 * * *"))
}
