package triage

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// FeverPattern is a static rule describing the keyword, symptom and
// temperature signature associated with a common cause of fever.
type FeverPattern struct {
	Name     string
	Keywords []string
	Symptoms []string
	Duration string
	Alert    string
	Severity string // "low", "medium", "high"
}

// feverPatterns is the fixed catalog, loaded once at process start. The slice
// order doubles as the tie-break: on equal scores the first-seen disease
// wins. That choice is arbitrary but deterministic, and it is preserved for
// behavioral compatibility.
var feverPatterns = []FeverPattern{
	{
		Name:     "dengue",
		Keywords: []string{"rash", "joint pain", "eye pain", "bleeding gums", "platelet", "petechiae", "bleeding"},
		Symptoms: []string{"high fever", "severe headache", "pain behind eyes", "muscle pain", "bone pain"},
		Duration: "5-7 days",
		Alert:    "Monitor platelet count, watch for bleeding signs. Seek medical attention if bleeding occurs.",
		Severity: "high",
	},
	{
		Name:     "malaria",
		Keywords: []string{"chills", "sweating", "cyclic fever", "shivering", "rigor"},
		Symptoms: []string{"fever with chills", "headache", "nausea", "muscle pain", "fatigue"},
		Duration: "2-3 days cycles",
		Alert:    "Requires antimalarial treatment within 48 hours. Can be life-threatening if untreated.",
		Severity: "high",
	},
	{
		Name:     "typhoid",
		Keywords: []string{"step-ladder fever", "rose spots", "abdominal pain", "constipation", "diarrhea"},
		Symptoms: []string{"prolonged fever", "weakness", "stomach pain", "headache", "loss of appetite"},
		Duration: "7-14 days",
		Alert:    "Requires antibiotic treatment. Can cause complications if untreated.",
		Severity: "high",
	},
	{
		Name:     "viral",
		Keywords: []string{"cold", "cough", "sore throat", "runny nose", "body ache"},
		Symptoms: []string{"mild fever", "body ache", "fatigue", "headache"},
		Duration: "3-5 days",
		Alert:    "Usually self-limiting, supportive care recommended. Rest and hydration.",
		Severity: "low",
	},
	{
		Name:     "flu",
		Keywords: []string{"influenza", "body ache", "fatigue", "cough", "sore throat"},
		Symptoms: []string{"fever", "chills", "body ache", "fatigue", "cough"},
		Duration: "5-7 days",
		Alert:    "Rest, hydration, and symptomatic treatment. Antiviral medication may help if started early.",
		Severity: "medium",
	},
	{
		Name:     "covid",
		Keywords: []string{"covid", "coronavirus", "loss of taste", "loss of smell", "shortness of breath"},
		Symptoms: []string{"fever", "cough", "shortness of breath", "fatigue", "loss of taste or smell"},
		Duration: "7-14 days",
		Alert:    "Isolate immediately. Monitor oxygen levels. Seek medical attention if breathing difficulties occur.",
		Severity: "high",
	},
}

const (
	// fallbackFeverType and fallbackConfidence are returned when no pattern
	// scores above zero. Tunable, not load-bearing.
	fallbackFeverType  = "viral"
	fallbackConfidence = 0.3

	// DiseaseConfidenceThreshold gates the merge of disease-specific
	// recommendations into the triage result. Strictly-greater comparison.
	DiseaseConfidenceThreshold = 0.3
)

// DiseaseAnalysis is the derived output of the pattern scorer. Only its
// recommendations and summary suffix are folded into the triage result; the
// score map is returned for observability.
type DiseaseAnalysis struct {
	LikelyType string         `json:"likely_type"`
	Confidence float64        `json:"confidence"`
	Matches    []string       `json:"matches,omitempty"`
	Pattern    *FeverPattern  `json:"-"`
	Scores     map[string]int `json:"all_scores"`
}

// IdentifyFeverType scores the symptom text against the fever catalog and
// returns the best-matching category. Keywords score +1, symptom phrases +2,
// and a supplied temperature adds disease-specific bonuses. When nothing
// matches the result is the fixed viral fallback at 0.3 confidence.
func IdentifyFeverType(symptoms string, temperature *float64) DiseaseAnalysis {
	lowered := normalizeSymptomText(symptoms)

	scores := make(map[string]int)
	matches := make(map[string][]string)

	for i := range feverPatterns {
		pattern := &feverPatterns[i]
		score := 0

		for _, keyword := range pattern.Keywords {
			if strings.Contains(lowered, keyword) {
				score++
				matches[pattern.Name] = append(matches[pattern.Name], keyword)
			}
		}
		// Symptoms are weighted higher than loose keywords.
		for _, symptom := range pattern.Symptoms {
			if strings.Contains(lowered, symptom) {
				score += 2
				matches[pattern.Name] = append(matches[pattern.Name], symptom)
			}
		}

		if temperature != nil {
			t := *temperature
			switch {
			case pattern.Name == "dengue" && t > 103:
				score++
			case pattern.Name == "malaria" && t > 100 && t < 104:
				score++
			case pattern.Name == "typhoid" && t > 102:
				score++
			}
		}

		if score > 0 {
			scores[pattern.Name] = score
		}
	}

	if len(scores) == 0 {
		return DiseaseAnalysis{
			LikelyType: fallbackFeverType,
			Confidence: fallbackConfidence,
			Pattern:    patternByName(fallbackFeverType),
			Scores:     map[string]int{},
		}
	}

	// Catalog order resolves ties: the first disease reaching the max score
	// wins.
	var best *FeverPattern
	bestScore := 0
	for i := range feverPatterns {
		if s, ok := scores[feverPatterns[i].Name]; ok && s > bestScore {
			best = &feverPatterns[i]
			bestScore = s
		}
	}

	totalPossible := len(best.Keywords) + len(best.Symptoms)
	confidence := math.Min(float64(bestScore)/float64(totalPossible), 1.0)
	confidence = math.Round(confidence*100) / 100

	return DiseaseAnalysis{
		LikelyType: best.Name,
		Confidence: confidence,
		Matches:    matches[best.Name],
		Pattern:    best,
		Scores:     scores,
	}
}

// DiseaseRecommendations returns the recommendation block for a disease
// type, or nil for an unknown type.
func DiseaseRecommendations(diseaseType string) []string {
	pattern := patternByName(diseaseType)
	if pattern == nil {
		return nil
	}

	recommendations := []string{
		fmt.Sprintf("Likely condition: %s", strings.ToUpper(diseaseType)),
		fmt.Sprintf("Typical duration: %s", pattern.Duration),
		fmt.Sprintf("Alert: %s", pattern.Alert),
	}

	switch pattern.Severity {
	case "high":
		recommendations = append(recommendations, "⚠️ Seek medical attention promptly")
	case "medium":
		recommendations = append(recommendations, "Monitor symptoms closely")
	default:
		recommendations = append(recommendations, "Continue supportive care at home")
	}

	return recommendations
}

var possessiveRe = regexp.MustCompile(`\b(?:my|your|his|her|our|their)\s+`)

// normalizeSymptomText lowercases the text and strips possessive
// determiners, so "pain behind my eyes" matches the catalog phrase
// "pain behind eyes".
func normalizeSymptomText(text string) string {
	return possessiveRe.ReplaceAllString(strings.ToLower(text), "")
}

func patternByName(name string) *FeverPattern {
	for i := range feverPatterns {
		if feverPatterns[i].Name == name {
			return &feverPatterns[i]
		}
	}
	return nil
}
