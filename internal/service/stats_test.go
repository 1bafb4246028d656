package service

import (
	"context"
	"fmt"
	"testing"

	"goeha/internal/domain"
	"goeha/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestStatsService_Summary(t *testing.T) {
	hardWords := testutil.SampleWords()
	hardWords[1].Hardness = domain.HardnessHard

	tests := []struct {
		name          string
		mockWords     []domain.Word
		mockError     error
		expected      domain.Summary
		expectedError bool
	}{
		{
			name:      "one hard word",
			mockWords: hardWords,
			expected:  domain.Summary{Total: 3, Hard: 1},
		},
		{
			name:      "empty store",
			mockWords: []domain.Word{},
			expected:  domain.Summary{},
		},
		{
			name:          "database error",
			mockError:     fmt.Errorf("db error"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockWordRepository)
			mockRepo.On("ReadAll", mock.Anything, domain.WordFilter{}).Return(tt.mockWords, tt.mockError)

			logger := testutil.NewTestLogger()
			service := NewStatsService(NewWordService(mockRepo, logger), logger)

			summary, err := service.Summary(context.Background())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, summary)
				assert.Equal(t, tt.expected.Total-tt.expected.Hard, summary.Normal())
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
