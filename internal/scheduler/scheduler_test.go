package scheduler

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"goeha/internal/domain"
	"goeha/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendSurprise(userID int64, word domain.Word) (bool, error) {
	args := m.Called(userID, word)
	return args.Bool(0), args.Error(1)
}

type recipientsFunc func() ([]int64, error)

func (f recipientsFunc) AuthorizedUsers(context.Context) ([]int64, error) { return f() }

type pickerFunc func() (*domain.Word, error)

func (f pickerFunc) GetRandomWord(context.Context, *rand.Rand) (*domain.Word, error) { return f() }

func fixedWord(w domain.Word) pickerFunc {
	return func() (*domain.Word, error) { return &w, nil }
}

func users(ids ...int64) recipientsFunc {
	return func() ([]int64, error) { return ids, nil }
}

func TestScheduler_SendRound(t *testing.T) {
	book := testutil.NewTestWord(2, "book", "책")

	tests := []struct {
		name          string
		recipients    recipientsFunc
		picker        pickerFunc
		setup         func(n *mockNotifier)
		expectedSent  int
		expectedError bool
	}{
		{
			name:       "every idle user gets a card",
			recipients: users(1, 2),
			picker:     fixedWord(book),
			setup: func(n *mockNotifier) {
				n.On("SendSurprise", int64(1), book).Return(true, nil)
				n.On("SendSurprise", int64(2), book).Return(true, nil)
			},
			expectedSent: 2,
		},
		{
			name:       "busy and failing users are skipped",
			recipients: users(1, 2, 3),
			picker:     fixedWord(book),
			setup: func(n *mockNotifier) {
				n.On("SendSurprise", int64(1), book).Return(false, nil)
				n.On("SendSurprise", int64(2), book).Return(false, errors.New("blocked by user"))
				n.On("SendSurprise", int64(3), book).Return(true, nil)
			},
			expectedSent: 1,
		},
		{
			name:         "empty store",
			recipients:   users(1),
			picker:       func() (*domain.Word, error) { return nil, nil },
			setup:        func(*mockNotifier) {},
			expectedSent: 0,
		},
		{
			name:          "recipient lookup fails",
			recipients:    func() ([]int64, error) { return nil, errors.New("db error") },
			picker:        fixedWord(book),
			setup:         func(*mockNotifier) {},
			expectedError: true,
		},
		{
			name:          "word lookup fails",
			recipients:    users(1),
			picker:        func() (*domain.Word, error) { return nil, errors.New("db error") },
			setup:         func(*mockNotifier) {},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := new(mockNotifier)
			tt.setup(notifier)

			s := New(notifier, tt.recipients, tt.picker, time.Hour, testutil.NewTestLogger())

			sent, err := s.SendRound(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedSent, sent)
			notifier.AssertExpectations(t)
		})
	}
}

func TestScheduler_Start(t *testing.T) {
	s := New(new(mockNotifier), users(), fixedWord(domain.Word{}), 0, testutil.NewTestLogger())
	assert.Error(t, s.Start())

	s = New(new(mockNotifier), users(), fixedWord(domain.Word{}), time.Hour, testutil.NewTestLogger())
	require.NoError(t, s.Start())
	s.Stop()
}
