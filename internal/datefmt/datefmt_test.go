package datefmt

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	want := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)

	cases := map[string]string{
		"with microseconds":  "2024-05-01 12:30:45.123456",
		"without fraction":   "2024-05-01 12:30:45",
		"iso with fraction":  "2024-05-01T12:30:45.5",
		"iso":                "2024-05-01T12:30:45",
		"rfc3339":            "2024-05-01T12:30:45Z",
		"surrounding spaces": "  2024-05-01 12:30:45 ",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(raw)
			require.NoError(t, err)
			assert.Equal(t, want, got.Truncate(time.Second).UTC())
		})
	}

	t.Run("date only", func(t *testing.T) {
		got, err := Parse("2024-05-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := Parse("first of May")
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestFormatter_Format(t *testing.T) {
	f := NewFormatter(time.UTC)

	assert.Equal(t, "01.05.2024 12:30", f.Format("2024-05-01 12:30:45.123456"))
	assert.Equal(t, "01.05.2024 12:30", f.Format("2024-05-01T12:30:45"))
	assert.Equal(t, "вчера вечером", f.Format("вчера вечером"))
	assert.Equal(t, Unknown, f.Format(""))
	assert.Equal(t, Unknown, f.Format("   "))
}

func TestFormatter_Display(t *testing.T) {
	moscow, err := time.LoadLocation(DefaultZone)
	require.NoError(t, err)

	t.Run("converts into the shop zone", func(t *testing.T) {
		f := NewFormatter(moscow)
		assert.Equal(t, "01.01.2024 02:59", f.Display(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)))
		assert.Equal(t, "01.05.2024 15:30", f.Format("2024-05-01 12:30:45.123456"))
	})

	t.Run("defaults to utc", func(t *testing.T) {
		f := NewFormatter(nil)
		assert.Equal(t, "31.12.2023 23:59", f.Display(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)))
	})

	t.Run("zero value formatter uses utc", func(t *testing.T) {
		var f Formatter
		assert.Equal(t, "31.12.2023 23:59", f.Display(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)))
	})

	t.Run("zero time is unknown", func(t *testing.T) {
		assert.Equal(t, Unknown, NewFormatter(moscow).Display(time.Time{}))
	})
}

func TestStorageRoundTrip(t *testing.T) {
	ts := time.Date(2024, 2, 29, 8, 15, 0, 123456000, time.UTC)

	got, err := Parse(Storage(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(got))
}
