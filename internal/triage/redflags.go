package triage

import (
	"fmt"
	"strings"
)

// redFlagPhrases is the curated list of emergency-indicating phrases. Order
// matters: CheckRedFlags returns the first match, so iteration must stay
// deterministic.
var redFlagPhrases = []string{
	"difficulty breathing",
	"trouble breathing",
	"can't breathe",
	"cannot breathe",
	"shortness of breath at rest",
	"chest pain",
	"chest tightness",
	"unconscious",
	"unresponsive",
	"not responding",
	"seizure",
	"convulsion",
	"blue lips",
	"bluish lips",
	"blue face",
	"severe bleeding",
	"uncontrolled bleeding",
	"coughing up blood",
	"vomiting blood",
	"stiff neck",
	"neck stiffness",
	"severe confusion",
	"disoriented",
	"fainted",
	"fainting",
	"passed out",
	"unable to wake",
	"won't wake up",
	"severe dehydration",
	"no urination",
	"not urinating",
	"sunken eyes",
	"severe abdominal pain",
	"slurred speech",
	"weakness on one side",
	"face drooping",
}

// CheckRedFlags scans free text for emergency-indicating phrases. The match
// is case-insensitive and substring based. It returns the first matching
// phrase from the fixed list, or ok=false when nothing matches. Absence of a
// match is not an error.
func CheckRedFlags(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, phrase := range redFlagPhrases {
		if strings.Contains(lowered, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// RedFlagResponse composes the fixed emergency reply shown to the user when a
// red flag fires. It never depends on the oracle.
func RedFlagResponse(symptom string) string {
	return fmt.Sprintf("⚠️ URGENT: You mentioned \"%s\", which may indicate a medical emergency.\n\n"+
		"Please take these steps right now:\n"+
		"1. Call emergency services immediately\n"+
		"2. Go to the nearest emergency room\n"+
		"3. Do not delay seeking medical attention\n\n"+
		"This assistant cannot handle emergencies. Please seek immediate care.", symptom)
}

// EmergencySteps are the fixed recommended next steps for any red-flag
// outcome.
func EmergencySteps() []string {
	return []string{
		"Call emergency services immediately",
		"Go to the nearest emergency room",
		"Do not delay seeking medical attention",
	}
}

// emergencyResult is the only constructor for red-flag outcomes, so the
// level/escalate/red_flag fields can never disagree.
func emergencyResult(symptom string) TriageResult {
	return TriageResult{
		TriageLevel:          LevelEmergency,
		Escalate:             true,
		Summary:              fmt.Sprintf("Red flag symptom detected: %s", symptom),
		RecommendedNextSteps: EmergencySteps(),
		RedFlagDetected:      true,
		RedFlagSymptom:       symptom,
	}
}
