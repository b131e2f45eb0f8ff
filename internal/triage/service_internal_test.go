package triage

import (
	"testing"
)

func TestExtractTemperature(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{"degree symbol", "I have a rash, temperature 104°F", 104, true},
		{"labeled reading", "my temperature is 102.5 today", 102.5, true},
		{"fever of", "fever of 103 since last night", 103, true},
		{"bare fahrenheit", "it reads 101 F on the thermometer", 101, true},
		{"no reading", "mild cold and sore throat for 2 days", 0, false},
		{"implausible value", "temperature 250 outside today", 0, false},
		{"unrelated number", "I took 200 mg of ibuprofen", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTemperature(tt.text)
			if tt.ok {
				if got == nil {
					t.Fatalf("extractTemperature(%q) = nil, want %v", tt.text, tt.want)
				}
				if *got != tt.want {
					t.Errorf("extractTemperature(%q) = %v, want %v", tt.text, *got, tt.want)
				}
			} else if got != nil {
				t.Errorf("extractTemperature(%q) = %v, want nil", tt.text, *got)
			}
		})
	}
}

func TestEnhanceMessage(t *testing.T) {
	t.Run("nil symptom data", func(t *testing.T) {
		if got := enhanceMessage("hello", nil); got != "hello" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("emergency marker", func(t *testing.T) {
		got := enhanceMessage("I feel warm", &SymptomData{EmergencyDetected: true})
		want := "EMERGENCY SYMPTOMS DETECTED: I feel warm"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("selected symptoms", func(t *testing.T) {
		got := enhanceMessage("I feel warm", &SymptomData{Symptoms: []string{"headache", "chills"}})
		want := "I feel warm\n\nSelected symptoms: headache, chills"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestEmergencyResultInvariant(t *testing.T) {
	result := emergencyResult("chest pain")
	if result.TriageLevel != LevelEmergency {
		t.Errorf("level = %s", result.TriageLevel)
	}
	if !result.Escalate {
		t.Error("escalate must be true")
	}
	if !result.RedFlagDetected {
		t.Error("red_flag_detected must be true")
	}
	if result.RedFlagSymptom != "chest pain" {
		t.Errorf("symptom = %q", result.RedFlagSymptom)
	}
}
