package quiz

import (
	"math/rand"
	"testing"
)

func TestLookupKnownSubjects(t *testing.T) {
	for _, subject := range Subjects() {
		templates := Lookup(subject)
		if len(templates) == 0 {
			t.Errorf("subject %q has no templates", subject)
		}
	}
}

func TestLookupFallsBackToDefault(t *testing.T) {
	fallback := Lookup("History")
	math := Lookup(DefaultSubject)

	if len(fallback) != len(math) {
		t.Fatalf("expected fallback to default subject, got %d templates vs %d", len(fallback), len(math))
	}
}

func TestStaticTemplatesHaveValidAnswerKeys(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for subject, templates := range bank {
		for i, tmpl := range templates {
			text, options, correct := tmpl.materialize(rnd)
			if text == "" {
				t.Errorf("%s[%d]: empty text", subject, i)
			}
			if len(options) != 4 {
				t.Errorf("%s[%d]: expected 4 options, got %d", subject, i, len(options))
			}
			if correct < 0 || correct >= len(options) {
				t.Errorf("%s[%d]: correct index %d out of range", subject, i, correct)
			}
		}
	}
}

func TestMaterializeCopiesOptions(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	tmpl := Lookup("Science")[0]

	_, options, _ := tmpl.materialize(rnd)
	options[0] = "mutated"

	_, fresh, _ := tmpl.materialize(rnd)
	if fresh[0] == "mutated" {
		t.Error("materialize must not expose the bank's backing array")
	}
}
