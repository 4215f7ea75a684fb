package rules

import (
	"ScheduleSync/internal/entity"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    entity.SchedulingRule
		wantErr bool
	}{
		{"domain block", rule("a", 0, entity.TriggerDomain, "rival.com", entity.ActionBlock, ""), false},
		{"all with note", rule("a", 0, entity.TriggerAll, "", entity.ActionAddNote, "hi"), false},
		{"weekend", rule("a", 0, entity.TriggerDayOfWeek, "weekends", entity.ActionBlock, ""), false},
		{"clock", rule("a", 0, entity.TriggerTimeAfter, "5pm", entity.ActionRequireApproval, ""), false},
		{"unknown trigger", rule("a", 0, entity.TriggerType("moon_phase"), "full", entity.ActionBlock, ""), true},
		{"unknown action", rule("a", 0, entity.TriggerAll, "", entity.ActionType("teleport"), ""), true},
		{"empty domain", rule("a", 0, entity.TriggerDomain, " ", entity.ActionBlock, ""), true},
		{"bad clock", rule("a", 0, entity.TriggerTimeBefore, "25:00", entity.ActionBlock, ""), true},
		{"bad days", rule("a", 0, entity.TriggerDayOfWeek, "someday", entity.ActionBlock, ""), true},
		{"zero duration", rule("a", 0, entity.TriggerAll, "", entity.ActionSetDuration, "0"), true},
		{"empty location", rule("a", 0, entity.TriggerAll, "", entity.ActionSetLocation, ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
