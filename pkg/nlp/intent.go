package nlp

import (
	"regexp"
	"strings"
)

type intentRule struct {
	intent Intent
	match  func(text string) bool
}

func anyPattern(patterns ...*regexp.Regexp) func(string) bool {
	return func(text string) bool {
		for _, p := range patterns {
			if p.MatchString(text) {
				return true
			}
		}
		return false
	}
}

const meetingNouns = `(meeting|meetings|booking|bookings|call|calls|appointment|appointments|event|events|session|sessions|demo|interview|sync|chat)`

var (
	cancelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(cancel|call off|scrap)\b.*\b` + meetingNouns + `\b`),
		regexp.MustCompile(`\bcancel\b.*@`),
		regexp.MustCompile(`\bcancel\b.*\bwith\b`),
	}

	reschedulePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\breschedul(e|ing)\b`),
		regexp.MustCompile(`\b(move|push|postpone|shift|bump|change)\b.*\b` + meetingNouns + `\b.*\b(to|until|till)\b`),
		regexp.MustCompile(`\b(push|postpone|delay)\b.*\b` + meetingNouns + `\b`),
	}

	availabilityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(availability|available)\b`),
		regexp.MustCompile(`\b(free|open)\s+(slots?|time|times|spots?)\b`),
		regexp.MustCompile(`\bam i (free|busy|available)\b`),
		regexp.MustCompile(`\bwhen (am i|are we) free\b`),
		regexp.MustCompile(`\bdo i have (any )?(free|open) time\b`),
	}

	findMeetingsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(find|search|look up|lookup|show|list)\b.*\b` + meetingNouns + `\b.*\b(with|from)\b`),
		regexp.MustCompile(`\bdo i have (a|an|any)? ?` + meetingNouns + `\b.*\b(with|from)\b`),
		regexp.MustCompile(`\bwhen (is|was) my\b.*\b` + meetingNouns + `\b`),
		regexp.MustCompile(`^(any |my |all )?(meetings?|calls?) with [a-z0-9._%+\-]+@`),
	}

	analyticsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(stats|statistics|analytics|insights|metrics|report)\b`),
		regexp.MustCompile(`\bhow many\b`),
		regexp.MustCompile(`\bhow busy\b`),
		regexp.MustCompile(`\b(weekly|monthly) summary\b`),
	}

	showRulesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(show|list|view|display|see|what are)\b.*\b(my|current|active|all)\b.*\brules?\b`),
		regexp.MustCompile(`\b(show|list|view|display)\b.*\brules?\b`),
		regexp.MustCompile(`^my (scheduling )?rules\b`),
	}

	createRuleExplicitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(create|add|make|new|set up|setup)\b\s+(a\s+)?(new\s+)?(scheduling\s+)?rule\b`),
	}

	createRuleNaturalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(block|blacklist)\b.*(@|\.[a-z]{2,}\b|\b(before|after|on|from|mentioning|containing)\b)`),
		regexp.MustCompile(`\bno (meetings|bookings|calls|appointments)\b`),
		regexp.MustCompile(`\b(don't|do not|never) (allow|accept|book)\b`),
		regexp.MustCompile(`\bauto[- ]?approve\b`),
		regexp.MustCompile(`\brequire (manual )?approval\b`),
		regexp.MustCompile(`\balways\b.*\b(make|set|add|prefix)\b`),
	}

	explainRulesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(how do|how does|explain|what are|what is|tell me about|help with)\b.*\brules?\b`),
		regexp.MustCompile(`\brules?\b.*\bwork\b`),
	}

	getLinkPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(my|booking|scheduling|calendar) (link|page|url)\b`),
		regexp.MustCompile(`\bget (me )?(my |a )?(booking )?link\b`),
		regexp.MustCompile(`\bshare\b.*\b(link|page|calendar)\b`),
	}

	upcomingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(upcoming|coming up)\b`),
		regexp.MustCompile(`\b(next|today's|tomorrow's)\b.*\b` + meetingNouns + `\b`),
		regexp.MustCompile(`\bmy (schedule|calendar|agenda)\b`),
		regexp.MustCompile(`\bwhat('s| is) (on|next)\b`),
		regexp.MustCompile(`\bwhat do i have\b`),
	}

	quickLinkPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(quick|one[- ]time|single[- ]use|magic|temporary)\s+(booking\s+)?link\b`),
		regexp.MustCompile(`\b(create|generate|make)\b.*\blink\b`),
	}

	teamLinksPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bteams?\b.*\b(links?|pages?|urls?|round[- ]robin)\b`),
		regexp.MustCompile(`\bround[- ]robin\b`),
	}

	planInfoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(my|current|which|what) plan\b`),
		regexp.MustCompile(`\b(subscription|upgrade|billing|quota|pricing)\b`),
		regexp.MustCompile(`\b(queries|requests) (left|remaining|used)\b`),
	}

	bookMeetingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(book|schedule|set up|setup|arrange|plan|organize|organise|create|add)\b.*\b(meeting|call|demo|interview|chat|session|consultation|appointment|sync|kickoff|onboarding|intro|follow[- ]?up)\b`),
		regexp.MustCompile(`\b(meet|meeting) with\b`),
		regexp.MustCompile(`\bbook\b.*@`),
	}

	templateChoicePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(option |number |template |#)?\d{1,2}[.!]?$`),
		regexp.MustCompile(`\b(use|pick|choose|select|go with)\b.*\b(template|option|number|one|#?\d{1,2})\b`),
		regexp.MustCompile(`\bno template\b`),
		regexp.MustCompile(`^(the )?(first|second|third|fourth|fifth|last)( one| template| option)?[.!]?$`),
	}

	confirmYesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(yes|y|yeah|yep|yup|sure|ok|okay|confirm|confirmed|correct|absolutely|definitely)\b`),
		regexp.MustCompile(`^(do it|go ahead|please do|sounds good|that works|let's do it)\b`),
	}

	confirmNoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(no|n|nope|nah|never ?mind|don't|do not|stop|abort|forget it)\b`),
		regexp.MustCompile(`^(cancel that|keep it|leave it)\b`),
	}
)

func matchGetLink(text string) bool {
	if strings.Contains(text, "team") {
		return false
	}
	return anyPattern(getLinkPatterns...)(text)
}

// intentRules is evaluated top to bottom; categories overlap, so the order is the priority.
var intentRules = []intentRule{
	{IntentCancel, anyPattern(cancelPatterns...)},
	{IntentReschedule, anyPattern(reschedulePatterns...)},
	{IntentCheckAvailability, anyPattern(availabilityPatterns...)},
	{IntentFindMeetings, anyPattern(findMeetingsPatterns...)},
	{IntentAnalytics, anyPattern(analyticsPatterns...)},
	{IntentShowRules, anyPattern(showRulesPatterns...)},
	{IntentCreateRule, anyPattern(createRuleExplicitPatterns...)},
	{IntentCreateRule, anyPattern(createRuleNaturalPatterns...)},
	{IntentExplainRules, anyPattern(explainRulesPatterns...)},
	{IntentGetLink, matchGetLink},
	{IntentUpcoming, anyPattern(upcomingPatterns...)},
	{IntentCreateQuickLink, anyPattern(quickLinkPatterns...)},
	{IntentTeamLinks, anyPattern(teamLinksPatterns...)},
	{IntentPlanInfo, anyPattern(planInfoPatterns...)},
	{IntentBookMeeting, anyPattern(bookMeetingPatterns...)},
	{IntentTemplateChoice, anyPattern(templateChoicePatterns...)},
	{IntentConfirmYes, anyPattern(confirmYesPatterns...)},
	{IntentConfirmNo, anyPattern(confirmNoPatterns...)},
}

// DetectIntent classifies a chat message. It never fails; unmatched text is IntentGeneral.
func DetectIntent(message string) Intent {
	text := Normalize(message)
	if text == "" {
		return IntentGeneral
	}
	for _, rule := range intentRules {
		if rule.match(text) {
			return rule.intent
		}
	}
	return IntentGeneral
}
