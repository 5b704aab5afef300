package prompts

const lessonsSpec = `Respond with a JSON object matching this exact structure:

{
  "lessons": [
    {
      "number": 1,
      "title": "<title>",
      "content": "<lesson body>",
      "why_it_matters": "<one or two sentences>",
      "reflection_prompt": "<question>",
      "references": ["<section or page reference>"]
    }
  ]
}

Field constraints:
- lessons: Ordered array of lessons. Number them from 1 without gaps.
- title: Short lesson title, no more than ten words.
- content: The lesson body in plain prose, three to six paragraphs.
- why_it_matters: Why this lesson matters to the people the ministry serves.
- reflection_prompt: A single open question for personal reflection.
- references: Optional list of section headings or page references from
  the source. Use an empty array when none apply.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not include any field other than those listed
- Every lesson must be grounded in the provided excerpt`

const questionsSpec = `Respond with a JSON object matching this exact structure:

{
  "questions": [
    {
      "prompt": "<question>",
      "options": ["<option A>", "<option B>", "<option C>", "<option D>"],
      "answer_index": 0,
      "explanation": "<why the answer is correct>"
    }
  ]
}

Field constraints:
- questions: Array of multiple-choice questions.
- prompt: The question text.
- options: Between three and five answer options.
- answer_index: Zero-based index of the single correct option.
- explanation: One or two sentences explaining the correct answer.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Do not include any field other than those listed
- Every question must be answerable from the provided excerpt`

var specs = map[Stage]string{
	StageLessons:        lessonsSpec,
	StageKnowledgeCheck: questionsSpec,
	StageAssessment:     questionsSpec,
}

// Spec returns the hardcoded specification for a generation stage.
// Specifications define the expected output format and behavioral constraints
// and are never overridden.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
