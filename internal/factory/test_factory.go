package factory

import (
	"time"

	"github.com/fanlink/fanlink/internal/dependencies/mocks"
	"github.com/fanlink/fanlink/internal/services/auth"
	"github.com/fanlink/fanlink/internal/storage/memory"
	"github.com/fanlink/fanlink/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// MockClock gives tests control over time-dependent behavior
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	authCfg := auth.DefaultConfig()
	authCfg.Secret = "test-secret"

	app := newWithDependencies(store, mockClock, authCfg, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// Close shuts down background components
func (t *TestApp) Close() {
	t.Hub.Close()
}
