package pipeline

import "github.com/JaimeStill/steward/pkg/openapi"

// Schemas returns the component schemas referenced by the pipeline routes.
func Schemas() map[string]*openapi.Schema {
	str := &openapi.Schema{Type: "string"}
	integer := &openapi.Schema{Type: "integer"}
	id := &openapi.Schema{Type: "string", Format: "uuid"}

	return map[string]*openapi.Schema{
		"DocumentResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id":      id,
				"title":            str,
				"status":           {Type: "string", Enum: []any{StatusCompleted, StatusFailed}},
				"eligible":         {Type: "boolean"},
				"analysis_id":      id,
				"training_id":      id,
				"slug":             str,
				"created":          {Type: "boolean"},
				"lessons":          integer,
				"knowledge_checks": integer,
				"assessments":      integer,
				"notified":         integer,
				"error":            str,
			},
		},
		"BatchReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"results": openapi.ArrayOf("DocumentResult"),
				"summary": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"total":      integer,
						"successful": integer,
						"failed":     integer,
					},
				},
			},
		},
		"SweepAttempt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"index":   integer,
				"level":   integer,
				"lessons": integer,
				"error":   str,
			},
		},
		"SweepResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"training_id": id,
				"title":       str,
				"before":      integer,
				"after":       integer,
				"attempts":    openapi.ArrayOf("SweepAttempt"),
				"outcome":     {Type: "string", Enum: []any{OutcomeFixed, OutcomeStillBelow, OutcomeUnfixable}},
				"error":       str,
			},
		},
		"SweepReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"before":  integer,
				"after":   integer,
				"results": openapi.ArrayOf("SweepResult"),
				"summary": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"total":       integer,
						"fixed":       integer,
						"still_below": integer,
						"unfixable":   integer,
					},
				},
			},
		},
	}
}
