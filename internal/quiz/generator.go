package quiz

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const baseTimeLimitMinutes = 10

// Question is a single generated multiple-choice question. IDs are 1-based
// positions; CorrectAnswer indexes into Options.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// Quiz is an ephemeral value generated per attempt; it is never persisted.
type Quiz struct {
	ID          string     `json:"id"`
	Standard    string     `json:"standard"`
	Subject     string     `json:"subject"`
	Level       string     `json:"level"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
	TimeLimit   int        `json:"timeLimit"` // minutes
	IsActive    bool       `json:"isActive"`
}

var levelMultipliers = map[string]float64{
	"Beginner":     1,
	"Intermediate": 1.5,
	"Advanced":     2,
}

// Generator assembles quizzes from the question bank.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a generator with a time-seeded source.
func NewGenerator() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewGeneratorWithSeed is for deterministic output in tests.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate builds a quiz for the given parameters. It is total: unknown
// subjects fall back to the default subject and unknown levels behave as
// Beginner, so there is no error return.
func (g *Generator) Generate(standard, subject, level string) Quiz {
	templates := Lookup(subject)

	g.mu.Lock()
	questions := make([]Question, len(templates))
	for i, tmpl := range templates {
		text, options, correct := tmpl.materialize(g.rnd)
		questions[i] = Question{
			ID:            i + 1,
			Text:          text,
			Options:       options,
			CorrectAnswer: correct,
		}
	}
	g.mu.Unlock()

	multiplier, ok := levelMultipliers[level]
	if !ok {
		multiplier = 1
	}

	return Quiz{
		ID:          uuid.NewString(),
		Standard:    standard,
		Subject:     subject,
		Level:       level,
		Title:       subject + " Quiz",
		Description: "Auto-generated " + subject + " quiz for standard " + standard,
		Questions:   questions,
		TimeLimit:   int(math.Floor(baseTimeLimitMinutes * multiplier)),
		IsActive:    true,
	}
}
