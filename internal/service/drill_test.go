package service

import (
	"context"
	"testing"
	"time"

	"goeha/internal/config"
	"goeha/internal/domain"
	"goeha/internal/drill"
	"goeha/internal/repository/sqlite"
	"goeha/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewDrillServiceFromConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.DrillConfig
		expectError bool
	}{
		{name: "defaults", cfg: config.DrillConfig{MatchMode: "any", Requeue: "append"}},
		{name: "exact random", cfg: config.DrillConfig{MatchMode: "exact", Requeue: "random"}},
		{name: "unknown match mode", cfg: config.DrillConfig{MatchMode: "fuzzy", Requeue: "append"}, expectError: true},
		{name: "unknown requeue", cfg: config.DrillConfig{MatchMode: "all", Requeue: "front"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := testutil.NewTestLogger()
			ws := NewWordService(new(testutil.MockWordRepository), logger)

			svc, err := NewDrillServiceFromConfig(ws, tt.cfg, nil, logger)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestDrillService_LoadWords(t *testing.T) {
	mockRepo := new(testutil.MockWordRepository)
	mockRepo.On("ReadAll", mock.Anything, domain.HardOnly()).Return(testutil.SampleWords()[:1], nil)

	logger := testutil.NewTestLogger()
	svc := NewDrillService(NewWordService(mockRepo, logger), drill.MatchAnyFragment, drill.RequeueAppend, nil, logger)

	words, err := svc.LoadWords(context.Background(), true)

	require.NoError(t, err)
	assert.Len(t, words, 1)
	assert.Equal(t, drill.StateIdle, svc.NewSession().State())
	mockRepo.AssertExpectations(t)
}

func nextEvent(t *testing.T, events <-chan drill.Event) drill.Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for drill event")
		return drill.Event{}
	}
}

func TestDrillService_StoreToSession(t *testing.T) {
	db, err := sqlite.Open(sqlite.MemoryPath, testutil.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := testutil.NewTestLogger()
	ws := NewWordService(sqlite.NewWordRepo(db), logger)
	ctx := context.Background()

	meanings := map[string]string{}
	for _, w := range testutil.SampleWords() {
		_, err := ws.AddWord(ctx, domain.WordFields{Word: w.Word, Meaning: w.Meaning})
		require.NoError(t, err)
		meanings[w.Word] = domain.SplitFragments(w.Meaning)[0]
	}

	svc := NewDrillService(ws, drill.MatchAnyFragment, drill.RequeueAppend, nil, logger)
	events := make(chan drill.Event, 16)
	driver := svc.NewDriver(func(e drill.Event) { events <- e })

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go driver.Run(runCtx)

	words, err := svc.LoadWords(ctx, false)
	require.NoError(t, err)
	require.NoError(t, driver.Start(words))

	e := nextEvent(t, events)
	require.Equal(t, drill.EventStarted, e.Type)
	require.NotNil(t, e.Next)
	assert.Equal(t, 3, e.Total)
	missed := e.Next.Word

	require.NoError(t, driver.Submit("모름"))
	e = nextEvent(t, events)
	require.Equal(t, drill.EventIncorrect, e.Type)
	assert.Equal(t, missed, e.Word.Word)
	assert.Nil(t, e.Next)

	require.NoError(t, driver.Advance())
	e = nextEvent(t, events)
	require.Equal(t, drill.EventNext, e.Type)

	submissions := 1
	for e.Next != nil {
		require.NoError(t, driver.Submit(meanings[e.Next.Word]))
		submissions++
		e = nextEvent(t, events)
		require.Equal(t, drill.EventCorrect, e.Type)
	}

	e = nextEvent(t, events)
	require.Equal(t, drill.EventComplete, e.Type)
	assert.Equal(t, missed, e.Word.Word)
	assert.Equal(t, 3, e.Solved)
	assert.Equal(t, 1, e.Wrong)
	assert.Equal(t, 1.0, e.Progress)
	assert.Equal(t, e.Total+e.Wrong, submissions)

	select {
	case <-driver.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("driver did not stop after completion")
	}
}

func TestDrillService_NewDriver_UsesGrader(t *testing.T) {
	apple := testutil.NewTestWord(1, "apple", "사과")

	mockRepo := new(testutil.MockWordRepository)
	mockRepo.On("ReadAll", mock.Anything, domain.WordFilter{}).Return([]domain.Word{apple}, nil)

	mockGrader := new(testutil.MockGrader)
	mockGrader.On("Grade", mock.Anything, apple, "사가").Return(drill.Verdict{Correct: true, Corrected: "사과", Score: 90}, nil)

	logger := testutil.NewTestLogger()
	svc := NewDrillService(NewWordService(mockRepo, logger), drill.MatchAnyFragment, drill.RequeueAppend, mockGrader, logger)

	events := make(chan drill.Event, 8)
	driver := svc.NewDriver(func(e drill.Event) { events <- e })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go driver.Run(ctx)

	words, err := svc.LoadWords(ctx, false)
	require.NoError(t, err)
	require.NoError(t, driver.Start(words))
	require.Equal(t, drill.EventStarted, nextEvent(t, events).Type)

	require.NoError(t, driver.Submit("사가"))

	e := nextEvent(t, events)
	require.Equal(t, drill.EventCorrect, e.Type)
	assert.Equal(t, "사과", e.Verdict.Corrected)
	assert.Equal(t, drill.EventComplete, nextEvent(t, events).Type)
	mockGrader.AssertExpectations(t)
}
