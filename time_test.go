package chatkit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeMarshal(t *testing.T) {
	t.Run("no zone suffix", func(t *testing.T) {
		ts := NewTime(time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC))

		data, err := json.Marshal(ts)
		require.NoError(t, err)
		assert.Equal(t, `"2026-03-14T09:26:53.589793"`, string(data))
	})

	t.Run("whole seconds omit fraction", func(t *testing.T) {
		ts := NewTime(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))

		data, err := json.Marshal(ts)
		require.NoError(t, err)
		assert.Equal(t, `"2026-03-14T09:26:53"`, string(data))
	})
}

func TestTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			name: "local time without zone",
			raw:  `"2026-03-14T09:26:53.5"`,
			want: time.Date(2026, 3, 14, 9, 26, 53, 500000000, time.UTC),
		},
		{
			name: "rfc3339 with zone",
			raw:  `"2026-03-14T09:26:53Z"`,
			want: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Time
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &ts))
			assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
		})
	}

	t.Run("garbage is rejected", func(t *testing.T) {
		var ts Time
		assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	})

	t.Run("null is accepted", func(t *testing.T) {
		var ts Time
		require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
		assert.True(t, ts.IsZero())
	})
}
