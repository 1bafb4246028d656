package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"goeha/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitReady(t *testing.T) {
	refused := errors.New("connection refused")

	tests := []struct {
		name        string
		attempts    int
		pings       []error
		expectError bool
	}{
		{name: "ready at once", attempts: 3, pings: []error{nil}},
		{name: "ready after restarts", attempts: 3, pings: []error{refused, refused, nil}},
		{name: "never ready", attempts: 2, pings: []error{refused, refused}, expectError: true},
		{name: "zero attempts still pings once", attempts: 0, pings: []error{nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer db.Close()
			for _, pingErr := range tt.pings {
				mock.ExpectPing().WillReturnError(pingErr)
			}

			err = waitReady(context.Background(), db, Retry{Attempts: tt.attempts, Delay: time.Millisecond}, testutil.NewTestLogger())

			if tt.expectError {
				assert.ErrorIs(t, err, refused)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestWaitReady_Canceled(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = waitReady(ctx, db, Retry{Attempts: 5, Delay: time.Hour}, testutil.NewTestLogger())
	assert.Error(t, err)
}
