// Package classifier maps a document's title and category to an audience
// tier, a required flag, and generation eligibility. Classification is a
// pure function of its rule table and is re-evaluated on every run.
package classifier

import (
	"slices"
	"strings"
)

// Category is the upload category of a source document.
type Category string

// Document categories.
const (
	CategoryResource           Category = "resource"
	CategoryMinistryManual     Category = "ministry_manual"
	CategoryLeadershipTraining Category = "leadership_training"
)

var categories = []Category{
	CategoryResource,
	CategoryMinistryManual,
	CategoryLeadershipTraining,
}

// Categories returns the list of valid document categories.
func Categories() []Category {
	return categories
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(categories, c)
}

// Audience is the tier of members a training targets.
type Audience string

// Audience tiers.
const (
	AudienceAll      Audience = "all"
	AudienceLeader   Audience = "leader"
	AudienceMinistry Audience = "ministry"
)

// Gated reports whether trainings for this audience are subject to the
// minimum lesson quality gate regardless of title.
func (a Audience) Gated() bool {
	return a == AudienceAll || a == AudienceLeader
}

// Decision is the outcome of classifying one document.
type Decision struct {
	Eligible bool     `json:"eligible"`
	Audience Audience `json:"audience"`
	Required bool     `json:"required"`
	Category Category `json:"category"`
	Core     bool     `json:"core"`
	Rule     string   `json:"rule,omitempty"`
}

// Classifier evaluates documents against an immutable Table.
type Classifier struct {
	table Table
}

// New creates a Classifier over table.
func New(table Table) Classifier {
	return Classifier{table: table}
}

// Classify evaluates a document. The first core rule whose fragment appears
// in the title decides audience, required, and effective category.
// Unmatched documents take their audience from the category.
func (c Classifier) Classify(title string, category Category, requiredByDefault bool) Decision {
	normalized := strings.ToLower(title)

	d := Decision{
		Audience: defaultAudience(category),
		Required: requiredByDefault,
		Category: category,
	}

	if rule, ok := c.table.match(normalized); ok {
		d.Audience = rule.Audience
		d.Required = rule.Required || requiredByDefault
		if rule.Category != "" {
			d.Category = rule.Category
		}
		d.Core = true
		d.Rule = rule.Fragment
	}

	switch category {
	case CategoryMinistryManual, CategoryLeadershipTraining:
		d.Eligible = true
	case CategoryResource:
		d.Eligible = d.Core || c.table.allowed(normalized)
	}

	return d
}

// IsCore reports whether title matches any core document rule.
func (c Classifier) IsCore(title string) bool {
	_, ok := c.table.match(strings.ToLower(title))
	return ok
}

func defaultAudience(category Category) Audience {
	switch category {
	case CategoryLeadershipTraining:
		return AudienceLeader
	case CategoryMinistryManual:
		return AudienceMinistry
	default:
		return AudienceAll
	}
}
