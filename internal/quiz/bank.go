package quiz

import (
	"fmt"
	"math/rand"
)

// DefaultSubject is served when a requested subject is not in the bank.
const DefaultSubject = "Math"

// Template is one bank entry. Static templates carry their text and options
// directly; arithmetic templates carry a build func that draws fresh operands
// on every generation, so repeated Math quizzes differ in numbers but never
// in structure.
type Template struct {
	Text          string
	Options       []string
	CorrectAnswer int

	build func(rnd *rand.Rand) (text string, options []string, correct int)
}

func (t Template) materialize(rnd *rand.Rand) (string, []string, int) {
	if t.build != nil {
		return t.build(rnd)
	}
	options := make([]string, len(t.Options))
	copy(options, t.Options)
	return t.Text, options, t.CorrectAnswer
}

// arithmetic returns a template whose operands are redrawn per generation.
// The correct option always lands at the fixed index so the answer key is
// stable across generations.
func arithmetic(format string, correctAt int, op func(a, b int) int) Template {
	return Template{build: func(rnd *rand.Rand) (string, []string, int) {
		a := rnd.Intn(20) + 1
		b := rnd.Intn(10) + 1
		answer := op(a, b)
		offsets := []int{-2, -1, 1, 2}
		rnd.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })

		options := make([]string, 4)
		oi := 0
		for i := range options {
			if i == correctAt {
				options[i] = fmt.Sprintf("%d", answer)
				continue
			}
			options[i] = fmt.Sprintf("%d", answer+offsets[oi])
			oi++
		}
		return fmt.Sprintf(format, a, b), options, correctAt
	}}
}

var bank = map[string][]Template{
	"Math": {
		arithmetic("What is %d + %d?", 1, func(a, b int) int { return a + b }),
		arithmetic("What is %d - %d?", 2, func(a, b int) int { return a - b }),
		arithmetic("What is %d × %d?", 0, func(a, b int) int { return a * b }),
		{
			Text:          "Which of these is an even number?",
			Options:       []string{"7", "13", "22", "9"},
			CorrectAnswer: 2,
		},
	},
	"Science": {
		{
			Text:          "Which planet is known as the Red Planet?",
			Options:       []string{"Venus", "Mars", "Jupiter", "Mercury"},
			CorrectAnswer: 1,
		},
		{
			Text:          "What gas do plants absorb from the atmosphere?",
			Options:       []string{"Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"},
			CorrectAnswer: 2,
		},
		{
			Text:          "What is the boiling point of water at sea level?",
			Options:       []string{"90°C", "100°C", "110°C", "120°C"},
			CorrectAnswer: 1,
		},
		{
			Text:          "Which part of the cell contains genetic material?",
			Options:       []string{"Nucleus", "Cytoplasm", "Cell wall", "Ribosome"},
			CorrectAnswer: 0,
		},
	},
	"English": {
		{
			Text:          "Which word is a synonym of \"happy\"?",
			Options:       []string{"Sad", "Joyful", "Angry", "Tired"},
			CorrectAnswer: 1,
		},
		{
			Text:          "Which sentence is grammatically correct?",
			Options:       []string{"She go to school.", "She goes to school.", "She going to school.", "She gone to school."},
			CorrectAnswer: 1,
		},
		{
			Text:          "What is the plural of \"child\"?",
			Options:       []string{"Childs", "Childes", "Children", "Childrens"},
			CorrectAnswer: 2,
		},
		{
			Text:          "Which of these is a verb?",
			Options:       []string{"Quickly", "Run", "Blue", "Happiness"},
			CorrectAnswer: 1,
		},
	},
}

// Lookup returns the ordered templates for a subject, falling back to the
// default subject for anything unrecognized. It never fails.
func Lookup(subject string) []Template {
	if templates, ok := bank[subject]; ok {
		return templates
	}
	return bank[DefaultSubject]
}

// Subjects lists the subjects with dedicated question sets.
func Subjects() []string {
	return []string{"Math", "Science", "English"}
}
