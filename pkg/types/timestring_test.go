package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Minutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:15", 555, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"25:00", 0, true},
		{"09:60", 0, true},
		{"9:00", 0, true},
		{"09-00", 0, true},
		{"", 0, true},
		{"noon", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			m, err := TimeString(tt.input).Minutes()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestFromMinutes(t *testing.T) {
	t.Parallel()

	t.Run("mid-day", func(t *testing.T) {
		t.Parallel()
		ts, err := FromMinutes(555)
		require.NoError(t, err)
		assert.Equal(t, TimeString("09:15"), ts)
	})

	t.Run("midnight", func(t *testing.T) {
		t.Parallel()
		ts, err := FromMinutes(0)
		require.NoError(t, err)
		assert.Equal(t, TimeString("00:00"), ts)
	})

	t.Run("end of day boundary", func(t *testing.T) {
		t.Parallel()
		ts, err := FromMinutes(1440)
		require.NoError(t, err)
		assert.Equal(t, TimeString("24:00"), ts)
	})

	t.Run("negative", func(t *testing.T) {
		t.Parallel()
		_, err := FromMinutes(-1)
		assert.ErrorIs(t, err, ErrTimeOutOfRange)
	})

	t.Run("past end of day", func(t *testing.T) {
		t.Parallel()
		_, err := FromMinutes(1441)
		assert.ErrorIs(t, err, ErrTimeOutOfRange)
	})
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Parallel()

	t.Run("within day", func(t *testing.T) {
		t.Parallel()
		ts, err := TimeString("10:00").AddMinutes(45)
		require.NoError(t, err)
		assert.Equal(t, TimeString("10:45"), ts)
	})

	t.Run("ends exactly at midnight", func(t *testing.T) {
		t.Parallel()
		ts, err := TimeString("23:30").AddMinutes(30)
		require.NoError(t, err)
		assert.Equal(t, TimeString("24:00"), ts)
	})

	t.Run("overflow past midnight", func(t *testing.T) {
		t.Parallel()
		_, err := TimeString("23:30").AddMinutes(60)
		assert.ErrorIs(t, err, ErrTimeOutOfRange)
	})
}

func TestTimeString_Compare(t *testing.T) {
	t.Parallel()

	assert.True(t, TimeString("09:00").IsBefore("09:15"))
	assert.False(t, TimeString("09:15").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))

	// Некорректные значения несравнимы
	assert.False(t, TimeString("bad").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("bad"))
}

func TestTimeString_Scan(t *testing.T) {
	t.Parallel()

	t.Run("postgres time with seconds", func(t *testing.T) {
		t.Parallel()
		var ts TimeString
		require.NoError(t, ts.Scan("09:30:00"))
		assert.Equal(t, TimeString("09:30"), ts)
	})

	t.Run("byte slice", func(t *testing.T) {
		t.Parallel()
		var ts TimeString
		require.NoError(t, ts.Scan([]byte("14:45:00")))
		assert.Equal(t, TimeString("14:45"), ts)
	})

	t.Run("time.Time", func(t *testing.T) {
		t.Parallel()
		var ts TimeString
		require.NoError(t, ts.Scan(time.Date(2026, 3, 10, 8, 5, 0, 0, time.UTC)))
		assert.Equal(t, TimeString("08:05"), ts)
	})

	t.Run("nil resets value", func(t *testing.T) {
		t.Parallel()
		ts := TimeString("09:00")
		require.NoError(t, ts.Scan(nil))
		assert.True(t, ts.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		t.Parallel()
		var ts TimeString
		assert.Error(t, ts.Scan(42))
	})
}

func TestTimeString_Value(t *testing.T) {
	t.Parallel()

	t.Run("valid time", func(t *testing.T) {
		t.Parallel()
		v, err := TimeString("09:00").Value()
		require.NoError(t, err)
		assert.Equal(t, "09:00", v)
	})

	t.Run("zero value maps to NULL", func(t *testing.T) {
		t.Parallel()
		v, err := TimeString("").Value()
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("invalid value is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := TimeString("9am").Value()
		assert.Error(t, err)
	})
}
