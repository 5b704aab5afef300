package prompts

import (
	"encoding/json"
	"slices"
)

// Stage identifies the generation stage a prompt override targets.
type Stage string

// Generation stages.
const (
	StageLessons        Stage = "lessons"
	StageKnowledgeCheck Stage = "knowledge_check"
	StageAssessment     Stage = "assessment"
)

var stages = []Stage{
	StageLessons,
	StageKnowledgeCheck,
	StageAssessment,
}

// Stages returns the list of valid generation stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStage(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known generation stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
