package utils

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationEnv(t *testing.T) {
	cases := map[string]time.Duration{
		"10":     10 * time.Second,
		"10s":    10 * time.Second,
		"5m":     5 * time.Minute,
		`"15s"`:  15 * time.Second,
		"'1h'":   time.Hour,
		" 250ms": 250 * time.Millisecond,
	}
	for in, want := range cases {
		got, err := ParseDurationEnv(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", `""`, "ten seconds"} {
		_, err := ParseDurationEnv(in)
		assert.Error(t, err, in)
	}
}

func TestIsPGUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, IsPGUniqueViolation(dup))
	assert.True(t, IsPGUniqueViolation(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsPGUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsPGUniqueViolation(errors.New("boom")))
}
