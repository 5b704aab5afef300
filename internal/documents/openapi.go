package documents

import "github.com/JaimeStill/steward/pkg/openapi"

// Schemas returns the component schemas referenced by the document routes.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":                  {Type: "string", Format: "uuid"},
				"title":               {Type: "string"},
				"category":            {Type: "string", Enum: []any{"resource", "ministry_manual", "leadership_training"}},
				"group_id":            {Type: "string", Format: "uuid"},
				"filename":            {Type: "string"},
				"content_type":        {Type: "string"},
				"size_bytes":          {Type: "integer"},
				"page_count":          {Type: "integer"},
				"storage_key":         {Type: "string"},
				"required_by_default": {Type: "boolean"},
				"uploaded_at":         {Type: "string", Format: "date-time"},
				"updated_at":          {Type: "string", Format: "date-time"},
				"training_id":         {Type: "string", Format: "uuid"},
				"analysis_status":     {Type: "string"},
			},
		},
		"DocumentPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Document"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
