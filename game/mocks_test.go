package game

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// --- TickerCreator ---

type MockTickerCreator struct {
	mock.Mock
}

func (m *MockTickerCreator) Create(d time.Duration) <-chan time.Time {
	args := m.Called(d)
	return args.Get(0).(chan time.Time)
}
