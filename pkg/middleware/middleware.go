// Package middleware holds the HTTP middleware applied to mounted modules.
package middleware

import "net/http"

// Middleware wraps a handler.
type Middleware = func(http.Handler) http.Handler

// System is an ordered middleware stack. The first middleware added is the
// outermost when applied.
type System interface {
	Use(mw Middleware)
	Apply(handler http.Handler) http.Handler
}

type stack []Middleware

// New returns an empty stack.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw Middleware) {
	*s = append(*s, mw)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := range *s {
		wrapped = (*s)[len(*s)-1-i](wrapped)
	}
	return wrapped
}
