package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	t.Parallel()

	t.Run("marshals as YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()
		d := NewDate(2026, time.January, 5)
		data, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, `"2026-01-05"`, string(data))
	})

	t.Run("unmarshals from YYYY-MM-DD", func(t *testing.T) {
		t.Parallel()
		var d Date
		err := json.Unmarshal([]byte(`"2026-01-05"`), &d)
		require.NoError(t, err)
		assert.Equal(t, NewDate(2026, time.January, 5), d)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		t.Parallel()
		var d Date
		err := json.Unmarshal([]byte(`"05/01/2026"`), &d)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("null becomes zero date", func(t *testing.T) {
		t.Parallel()
		var d Date
		err := json.Unmarshal([]byte(`null`), &d)
		require.NoError(t, err)
		assert.True(t, d.IsZero())
	})
}

func TestDateScan(t *testing.T) {
	t.Parallel()

	t.Run("scans time.Time", func(t *testing.T) {
		t.Parallel()
		var d Date
		err := d.Scan(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, "2026-07-01", d.String())
	})

	t.Run("scans string", func(t *testing.T) {
		t.Parallel()
		var d Date
		err := d.Scan("2026-07-01")
		require.NoError(t, err)
		assert.Equal(t, "2026-07-01", d.String())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		t.Parallel()
		var d Date
		assert.Error(t, d.Scan(42))
	})
}

func TestDateOf(t *testing.T) {
	t.Parallel()

	instant := time.Date(2026, time.May, 20, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, NewDate(2026, time.May, 20), DateOf(instant))
}
