package trainings

import "github.com/google/uuid"

// Lesson is one ordered unit of a training module.
type Lesson struct {
	ID               uuid.UUID `json:"id"`
	Number           int       `json:"number"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	WhyItMatters     string    `json:"why_it_matters"`
	ReflectionPrompt string    `json:"reflection_prompt"`
	References       []string  `json:"references,omitempty"`
}

// Question is a multiple-choice item used by both knowledge checks and assessments.
type Question struct {
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}

// Valid reports whether the question has a usable shape:
// a prompt, at least two options, and an answer index within range.
func (q Question) Valid() bool {
	return q.Prompt != "" && len(q.Options) >= 2 &&
		q.AnswerIndex >= 0 && q.AnswerIndex < len(q.Options)
}
