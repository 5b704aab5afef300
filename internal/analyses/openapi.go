package analyses

import "github.com/JaimeStill/steward/pkg/openapi"

// Schemas returns the component schemas referenced by the analysis routes.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"AnalysisArtifacts": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"lessons":          {Type: "integer"},
				"knowledge_checks": {Type: "integer"},
				"assessments":      {Type: "integer"},
			},
		},
		"Analysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":             {Type: "string", Format: "uuid"},
				"document_id":    {Type: "string", Format: "uuid"},
				"status":         {Type: "string", Enum: []any{"pending", "processing", "completed", "failed"}},
				"extracted_text": {Type: "string"},
				"summary":        {Type: "string"},
				"key_topics":     {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"artifacts":      openapi.SchemaRef("AnalysisArtifacts"),
				"error":          {Type: "string"},
				"generated_at":   {Type: "string", Format: "date-time"},
				"created_at":     {Type: "string", Format: "date-time"},
				"updated_at":     {Type: "string", Format: "date-time"},
			},
		},
		"AnalysisPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Analysis"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
