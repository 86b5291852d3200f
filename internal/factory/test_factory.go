package factory

import (
	"time"

	"github.com/ab3d1/moneygrid/internal/dependencies/mocks"
	"github.com/ab3d1/moneygrid/internal/services/admin"
	"github.com/ab3d1/moneygrid/internal/storage/memory"
	"github.com/ab3d1/moneygrid/internal/testutil"
)

// TestAdminSecret is the shared secret used by test apps
const TestAdminSecret = "CYBER_ADMIN_2025"

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	adminCfg := admin.DefaultConfig()
	adminCfg.Secret = TestAdminSecret

	app, err := newWithDependencies(store, mockClock, mockRandom, adminCfg, testutil.NopLogger())
	if err != nil {
		panic(err)
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
