package prompts

import "github.com/JaimeStill/steward/pkg/openapi"

// Schemas returns the component schemas referenced by the prompt routes.
func Schemas() map[string]*openapi.Schema {
	stage := &openapi.Schema{
		Type: "string",
		Enum: []any{string(StageLessons), string(StageKnowledgeCheck), string(StageAssessment)},
	}

	return map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":           {Type: "string", Format: "uuid"},
				"name":         {Type: "string"},
				"stage":        stage,
				"instructions": {Type: "string"},
				"description":  {Type: "string"},
				"active":       {Type: "boolean"},
				"updated_at":   {Type: "string", Format: "date-time"},
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Prompt"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"StageContent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":   stage,
				"content": {Type: "string"},
			},
		},
	}
}
