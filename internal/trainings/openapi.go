package trainings

import "github.com/JaimeStill/steward/pkg/openapi"

// Schemas returns the component schemas referenced by the training routes.
func Schemas() map[string]*openapi.Schema {
	question := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"prompt":       {Type: "string"},
			"options":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
			"answer_index": {Type: "integer"},
			"explanation":  {Type: "string"},
		},
	}

	return map[string]*openapi.Schema{
		"Lesson": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"number":            {Type: "integer"},
				"title":             {Type: "string"},
				"content":           {Type: "string"},
				"why_it_matters":    {Type: "string"},
				"reflection_prompt": {Type: "string"},
				"references":        {Type: "array", Items: &openapi.Schema{Type: "string"}},
			},
		},
		"Question": question,
		"Training": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                {Type: "string", Format: "uuid"},
				"document_id":       {Type: "string", Format: "uuid"},
				"title":             {Type: "string"},
				"slug":              {Type: "string"},
				"audience":          {Type: "string", Enum: []any{"all", "leader", "ministry"}},
				"group_id":          {Type: "string", Format: "uuid"},
				"required":          {Type: "boolean"},
				"published":         {Type: "boolean"},
				"lessons":           openapi.ArrayOf("Lesson"),
				"knowledge_checks":  openapi.ArrayOf("Question"),
				"assessments":       openapi.ArrayOf("Question"),
				"lesson_count":      {Type: "integer"},
				"estimated_minutes": {Type: "integer"},
				"passing_score":     {Type: "integer"},
				"reward_weight":     {Type: "integer"},
				"created_at":        {Type: "string", Format: "date-time"},
				"updated_at":        {Type: "string", Format: "date-time"},
			},
		},
		"TrainingPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Training"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
