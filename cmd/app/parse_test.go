package main

import (
	"bytes"
	"testing"
	"time"

	"ScheduleSync/internal/entity"
	"ScheduleSync/pkg/nlp"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedParser() *nlp.Parser {
	now := time.Date(2025, time.June, 16, 10, 0, 0, 0, time.UTC)
	return nlp.NewParser(time.UTC, func() time.Time { return now })
}

func TestDescribeMessage(t *testing.T) {
	out := describeMessage(fixedParser(), "Move my meeting with john@acme.com to Friday at 3pm")
	assert.Equal(t, nlp.IntentReschedule, out.Intent)
	require.NotNil(t, out.Reschedule)
	assert.Equal(t, "john@acme.com", out.Reschedule.Meeting.Email)
	require.NotNil(t, out.Reschedule.NewTime)
	assert.Equal(t, 15, out.Reschedule.NewTime.Hours)

	out = describeMessage(fixedParser(), "block meetings from competitor.com")
	assert.Equal(t, nlp.IntentCreateRule, out.Intent)
	require.NotNil(t, out.Rule)
	assert.Equal(t, entity.ActionBlock, out.Rule.ActionType)

	out = describeMessage(fixedParser(), "Book a call tomorrow at 2pm")
	assert.Equal(t, nlp.IntentBookMeeting, out.Intent)
	assert.Equal(t, []string{"email"}, out.Missing)
}

func TestParseCommandWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	parseCmd.SetOut(&buf)
	t.Cleanup(func() { parseCmd.SetOut(nil) })

	require.NoError(t, runParse(parseCmd, []string{"yes"}))

	var got map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "confirm_yes", got["intent"])
}
