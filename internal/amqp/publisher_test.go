package amqp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fintrack/internal/core"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishSummary(ctx context.Context, msg *SummaryMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func TestSummaryObserverPublishes(t *testing.T) {
	at := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	p := new(mockPublisher)
	p.On("PublishSummary", mock.Anything, mock.MatchedBy(func(m *SummaryMessage) bool {
		return m.Balance.Cents == 290000 && m.Timestamp.Equal(at) && len(m.BudgetStatus) == 3
	})).Return(nil).Once()

	observe := SummaryObserver(p, nil, func() time.Time { return at })
	observe(testSummary())

	p.AssertExpectations(t)
}

func TestSummaryObserverSwallowsErrors(t *testing.T) {
	p := new(mockPublisher)
	p.On("PublishSummary", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	observe := SummaryObserver(p, nil, nil)

	assert.NotPanics(t, func() { observe(core.FinancialSummary{}) })
	p.AssertNumberOfCalls(t, "PublishSummary", 1)
}
