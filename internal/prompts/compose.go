package prompts

import "strings"

// Compose joins stage instructions, the output specification, and an optional
// closing demand into one system prompt, separated by blank lines.
func Compose(instructions, spec, demand string) string {
	parts := []string{instructions, spec}
	if demand != "" {
		parts = append(parts, demand)
	}
	return strings.Join(parts, "\n\n")
}
