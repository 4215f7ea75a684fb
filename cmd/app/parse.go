package main

import (
	"ScheduleSync/pkg/nlp"
	ruleEngine "ScheduleSync/pkg/rules"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

var parseTimezone string

var parseCmd = &cobra.Command{
	Use:   "parse <message...>",
	Short: "Print the detected intent and extracted entities of a chat message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseTimezone, "tz", "UTC", "IANA timezone used to resolve dates and times")
}

type parseOutput struct {
	Intent     nlp.Intent           `json:"intent"`
	Booking    nlp.BookingDetails   `json:"booking"`
	Missing    []string             `json:"missing,omitempty"`
	Reference  nlp.MeetingReference `json:"reference"`
	Reschedule *rescheduleOutput    `json:"reschedule,omitempty"`
	Rule       *ruleEngine.Draft    `json:"rule,omitempty"`
	Choice     *int                 `json:"choice,omitempty"`
}

type rescheduleOutput struct {
	Meeting nlp.MeetingReference `json:"meeting"`
	NewDate *nlp.ParsedDate      `json:"new_date,omitempty"`
	NewTime *nlp.ParsedTime      `json:"new_time,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	loc, err := time.LoadLocation(parseTimezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", parseTimezone, err)
	}

	message := strings.Join(args, " ")
	out := describeMessage(nlp.NewParser(loc, time.Now), message)

	raw, err := jsoniter.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return err
}

func describeMessage(parser *nlp.Parser, message string) parseOutput {
	details := parser.ParseBookingDetails(message)
	out := parseOutput{
		Intent:    nlp.DetectIntent(message),
		Booking:   details,
		Missing:   details.Missing(),
		Reference: parser.ParseMeetingReference(message),
	}

	switch out.Intent {
	case nlp.IntentReschedule:
		ref, date, clock := parser.ParseRescheduleRequest(message)
		out.Reschedule = &rescheduleOutput{Meeting: ref, NewDate: date, NewTime: clock}
	case nlp.IntentCreateRule:
		if draft, ok := ruleEngine.ParseRuleCommand(message); ok {
			out.Rule = &draft
		}
	case nlp.IntentTemplateChoice:
		if n, ok := nlp.ExtractChoiceNumber(message); ok {
			out.Choice = &n
		}
	}
	return out
}
