package nlp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNaturalTime(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		text    string
		hours   int
		minutes int
		timeStr string
	}{
		{"3pm", 15, 0, "3:00 PM"},
		{"at 10:30am", 10, 30, "10:30 AM"},
		{"12pm", 12, 0, "12:00 PM"},
		{"12am", 0, 0, "12:00 AM"},
		{"around 3 P.M.", 15, 0, "3:00 PM"},
		{"at 3", 15, 0, "3:00 PM"},
		{"at 9", 9, 0, "9:00 AM"},
		{"14:30", 14, 30, "2:30 PM"},
		{"2:15 works", 14, 15, "2:15 PM"},
		{"lunchtime", 12, 0, "12:00 PM"},
		{"noon", 12, 0, "12:00 PM"},
		{"tomorrow morning", 9, 0, "9:00 AM"},
		{"friday afternoon", 14, 0, "2:00 PM"},
		{"this evening", 17, 0, "5:00 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := p.ParseNaturalTime(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.hours, got.Hours)
			assert.Equal(t, tt.minutes, got.Minutes)
			assert.Equal(t, tt.timeStr, got.TimeStr)
		})
	}
}

func TestParseNaturalTime_NoMatch(t *testing.T) {
	p := newTestParser()
	for _, text := range []string{"", "let's chat tomorrow", "email me at bob@acme.com", "13pm", "at 25"} {
		assert.Nil(t, p.ParseNaturalTime(text), text)
	}
}

func TestParsedTimeOn(t *testing.T) {
	got := ParsedTime{Hours: 15, Minutes: 30}.On(ymd(2025, 6, 13))
	assert.Equal(t, ymd(2025, 6, 13).Add(15*time.Hour+30*time.Minute), got)
}
