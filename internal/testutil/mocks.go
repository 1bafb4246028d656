package testutil

import (
	"context"

	"goeha/internal/domain"
	"goeha/internal/drill"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Register(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Authorize(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockUserRepository) ListAuthorized(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

// MockWordRepository is a mock for WordRepository
type MockWordRepository struct {
	mock.Mock
}

func (m *MockWordRepository) Create(ctx context.Context, fields domain.WordFields) (int64, error) {
	args := m.Called(ctx, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWordRepository) ReadAll(ctx context.Context, filter domain.WordFilter) ([]domain.Word, error) {
	args := m.Called(ctx, filter)
	words, _ := args.Get(0).([]domain.Word)
	return words, args.Error(1)
}

func (m *MockWordRepository) Update(ctx context.Context, id int64, patch domain.WordPatch) (int64, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWordRepository) Delete(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

// MockGrader is a mock for drill.Grader
type MockGrader struct {
	mock.Mock
}

func (m *MockGrader) Grade(ctx context.Context, word domain.Word, answer string) (drill.Verdict, error) {
	args := m.Called(ctx, word, answer)
	return args.Get(0).(drill.Verdict), args.Error(1)
}
