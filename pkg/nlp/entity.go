package nlp

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	emailPattern        = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	durationPattern     = regexp.MustCompile(`\b(\d{1,3})\s*-?\s*(minutes|minute|mins|min|hours|hour|hrs|hr)\b`)
	halfHourPattern     = regexp.MustCompile(`\bhalf (an )?hour\b`)
	anHourPattern       = regexp.MustCompile(`\b(an|one) hour\b`)
	withNamePattern     = regexp.MustCompile(`\bwith\s+([A-Z][a-zA-Z'\-]+(?:\s+[A-Z][a-zA-Z'\-]+)?)`)
	choiceDigitPattern  = regexp.MustCompile(`\b(\d{1,2})\b`)
	nextMeetingPattern  = regexp.MustCompile(`\b(my )?next\s+(meeting|call|booking|appointment|session)\b`)
	rescheduleSplitWord = regexp.MustCompile(`(?i)[\s\p{Zs}]+(to|until|till)[\s\p{Zs}]+`)
)

type meetingType struct {
	keywords []string
	label    string
}

// meetingTypes is ordered; the first keyword hit wins.
var meetingTypes = []meetingType{
	{[]string{"sales call", "sales meeting"}, "Sales Call"},
	{[]string{"demo"}, "Demo"},
	{[]string{"interview"}, "Interview"},
	{[]string{"consultation", "consult"}, "Consultation"},
	{[]string{"discovery"}, "Discovery Call"},
	{[]string{"intro", "introduction"}, "Intro Call"},
	{[]string{"onboarding"}, "Onboarding"},
	{[]string{"kickoff", "kick-off", "kick off"}, "Kickoff"},
	{[]string{"follow-up", "follow up", "followup"}, "Follow-up"},
	{[]string{"coaching"}, "Coaching Session"},
	{[]string{"support"}, "Support Call"},
}

var ordinals = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"sixth": 6, "seventh": 7, "eighth": 8, "ninth": 9, "tenth": 10,
}

// nameStopWords are capitalised words that follow "with" without being a person.
var nameStopWords = map[string]bool{
	"today": true, "tomorrow": true, "next": true, "this": true, "the": true,
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true, "my": true, "a": true, "an": true,
}

var titleCaser = cases.Title(language.English)

func ExtractEmail(text string) string {
	return strings.ToLower(emailPattern.FindString(text))
}

// ExtractDuration returns the requested meeting length in minutes, or 0.
func ExtractDuration(text string) int {
	lower := Normalize(text)
	if m := durationPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return 0
		}
		if strings.HasPrefix(m[2], "h") {
			return n * 60
		}
		return n
	}
	if halfHourPattern.MatchString(lower) {
		return 30
	}
	if anHourPattern.MatchString(lower) {
		return 60
	}
	return 0
}

func ExtractMeetingType(text string) string {
	lower := Normalize(text)
	for _, mt := range meetingTypes {
		for _, kw := range mt.keywords {
			if strings.Contains(lower, kw) {
				return mt.label
			}
		}
	}
	return ""
}

// ExtractAttendeeName finds "with Firstname [Lastname]" in the original casing.
func ExtractAttendeeName(text string) string {
	for _, m := range withNamePattern.FindAllStringSubmatch(text, -1) {
		words := strings.Fields(m[1])
		var kept []string
		for _, w := range words {
			if nameStopWords[strings.ToLower(w)] {
				break
			}
			kept = append(kept, w)
		}
		if len(kept) > 0 {
			return strings.Join(kept, " ")
		}
	}
	return ""
}

// NameFromEmail turns "jane.doe@acme.com" into "Jane Doe".
func NameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	local := strings.NewReplacer(".", " ", "_", " ", "-", " ", "+", " ").Replace(email[:at])
	return titleCaser.String(strings.Join(strings.Fields(local), " "))
}

// ExtractChoiceNumber reads a 1-based choice ("2", "#3", "the second one"); -1 means "last".
func ExtractChoiceNumber(text string) (int, bool) {
	lower := Normalize(text)
	if m := choiceDigitPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return n, true
		}
	}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!'
	}) {
		if n, ok := ordinals[word]; ok {
			return n, true
		}
		if word == "last" {
			return -1, true
		}
	}
	return 0, false
}

func (p *Parser) ParseBookingDetails(message string) BookingDetails {
	details := BookingDetails{
		AttendeeEmail: ExtractEmail(message),
		AttendeeName:  ExtractAttendeeName(message),
		Date:          p.ParseNaturalDate(message),
		Time:          p.ParseNaturalTime(message),
		Duration:      ExtractDuration(message),
		MeetingType:   ExtractMeetingType(message),
	}
	if details.AttendeeName == "" && details.AttendeeEmail != "" {
		details.AttendeeName = NameFromEmail(details.AttendeeEmail)
	}

	label := details.MeetingType
	if label == "" {
		label = "Meeting"
	}
	if details.AttendeeName != "" {
		details.Title = label + " with " + details.AttendeeName
	} else {
		details.Title = label
	}
	return details
}

func (p *Parser) ParseMeetingReference(message string) MeetingReference {
	return MeetingReference{
		Email: ExtractEmail(message),
		Name:  ExtractAttendeeName(message),
		Date:  p.ParseNaturalDate(message),
		Time:  p.ParseNaturalTime(message),
		Next:  nextMeetingPattern.MatchString(Normalize(message)),
	}
}

// ParseRescheduleRequest separates the meeting being moved from its new date/time,
// splitting on the last " to ". Without a split word only attendee fields identify the meeting.
func (p *Parser) ParseRescheduleRequest(message string) (MeetingReference, *ParsedDate, *ParsedTime) {
	locs := rescheduleSplitWord.FindAllStringIndex(message, -1)
	if len(locs) == 0 {
		ref := MeetingReference{
			Email: ExtractEmail(message),
			Name:  ExtractAttendeeName(message),
			Next:  nextMeetingPattern.MatchString(Normalize(message)),
		}
		return ref, p.ParseNaturalDate(message), p.ParseNaturalTime(message)
	}

	// Split the original text so the attendee name keeps its capitalisation.
	last := locs[len(locs)-1]
	head, tail := message[:last[0]], message[last[1]:]
	return p.ParseMeetingReference(head), p.ParseNaturalDate(tail), p.ParseNaturalTime(tail)
}
