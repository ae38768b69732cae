package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "обычное время", input: "18:30", want: "18:30"},
		{name: "postgres TIME с секундами", input: "09:05:00", want: "09:05"},
		{name: "конец дня", input: "24:00", want: "24:00"},
		{name: "без ведущего нуля", input: "9:00", wantErr: true},
		{name: "минуты вне диапазона", input: "10:60", wantErr: true},
		{name: "24 с минутами", input: "24:30", wantErr: true},
		{name: "мусор", input: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("20:30")

	got, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("21:00"), got)

	got, err = start.AddMinutes(210)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = start.AddMinutes(211)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("12:00")
	b := MustTimeString("12:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
	assert.Equal(t, 720, a.Minutes())
}

func TestTimeString_On(t *testing.T) {
	day := time.Date(2025, 6, 12, 15, 45, 0, 0, time.UTC)
	got := MustTimeString("18:30").On(day)
	assert.Equal(t, time.Date(2025, 6, 12, 18, 30, 0, 0, time.UTC), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("19:00:00")))
	assert.Equal(t, TimeString("19:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 15, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:15"), ts)

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Time TimeString `json:"time"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"time":"13:30"}`), &payload))
	assert.Equal(t, TimeString("13:30"), payload.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"time":"1:30pm"}`), &payload))
}
