package notifications

import "github.com/JaimeStill/steward/pkg/openapi"

func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Notification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"user_id":     {Type: "string", Format: "uuid"},
				"training_id": {Type: "string", Format: "uuid"},
				"kind":        {Type: "string", Enum: []any{"training_generated", "training_assigned"}},
				"message":     {Type: "string"},
				"created_at":  {Type: "string", Format: "date-time"},
				"read_at":     {Type: "string", Format: "date-time"},
				"read":        {Type: "boolean"},
			},
		},
		"NotificationPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Notification"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
