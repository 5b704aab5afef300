package openapi

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Spec is an OpenAPI 3.1 document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      map[string]*PathItem{},
		Components: NewComponents(),
	}
}

func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddOperation registers op under a ServeMux-style path. Wildcards in the path
// become required path parameters on op unless it already declares its own;
// names ending in "id" or "Id" are typed as uuid.
func (s *Spec) AddOperation(method, path string, op *Operation) {
	if path == "" {
		path = "/"
	}
	if len(op.Parameters) == 0 {
		op.Parameters = pathParams(path)
	}

	item := s.Paths[path]
	if item == nil {
		item = &PathItem{}
		s.Paths[path] = item
	}

	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	}
}

func pathParams(path string) []*Parameter {
	var params []*Parameter
	for seg := range strings.SplitSeq(path, "/") {
		name, ok := strings.CutPrefix(seg, "{")
		if !ok {
			continue
		}
		name = strings.TrimSuffix(strings.TrimSuffix(name, "}"), "...")

		schema := &Schema{Type: "string"}
		if strings.HasSuffix(name, "id") || strings.HasSuffix(name, "Id") {
			schema.Format = "uuid"
		}
		params = append(params, &Parameter{Name: name, In: "path", Required: true, Schema: schema})
	}
	return params
}

func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// ServeSpec serves pre-rendered spec bytes.
func ServeSpec(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(doc)
	}
}
