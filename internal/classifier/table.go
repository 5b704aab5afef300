package classifier

import (
	"slices"
	"strings"
)

// Rule maps a lowercase title fragment to classification outcomes.
// An empty Category keeps the document's own category.
type Rule struct {
	Fragment string
	Audience Audience
	Required bool
	Category Category
}

// Table is an ordered, immutable set of core document rules plus the
// allowlist of title fragments that make a generic resource eligible.
type Table struct {
	rules     []Rule
	allowlist []string
}

// NewTable copies rules and allowlist into a Table. Fragments are lowercased.
func NewTable(rules []Rule, allowlist []string) Table {
	t := Table{
		rules:     make([]Rule, len(rules)),
		allowlist: make([]string, len(allowlist)),
	}
	for i, r := range rules {
		r.Fragment = strings.ToLower(r.Fragment)
		t.rules[i] = r
	}
	for i, a := range allowlist {
		t.allowlist[i] = strings.ToLower(a)
	}
	return t
}

// Rules returns a copy of the table's rules in evaluation order.
func (t Table) Rules() []Rule {
	return slices.Clone(t.rules)
}

func (t Table) match(title string) (Rule, bool) {
	for _, r := range t.rules {
		if r.Fragment != "" && strings.Contains(title, r.Fragment) {
			return r, true
		}
	}
	return Rule{}, false
}

func (t Table) allowed(title string) bool {
	for _, a := range t.allowlist {
		if a != "" && strings.Contains(title, a) {
			return true
		}
	}
	return false
}

// DefaultTable returns the core document rules and resource allowlist
// used by the training pipeline.
func DefaultTable() Table {
	return NewTable(
		[]Rule{
			{Fragment: "safe sanctuary", Audience: AudienceAll, Required: true, Category: CategoryMinistryManual},
			{Fragment: "child protection", Audience: AudienceAll, Required: true, Category: CategoryMinistryManual},
			{Fragment: "code of conduct", Audience: AudienceAll, Required: true},
			{Fragment: "volunteer handbook", Audience: AudienceAll, Required: true, Category: CategoryMinistryManual},
			{Fragment: "confidentiality", Audience: AudienceAll, Required: true},
			{Fragment: "bylaws", Audience: AudienceLeader, Required: true, Category: CategoryLeadershipTraining},
			{Fragment: "constitution", Audience: AudienceLeader, Required: true, Category: CategoryLeadershipTraining},
			{Fragment: "leadership covenant", Audience: AudienceLeader, Required: true, Category: CategoryLeadershipTraining},
			{Fragment: "leader handbook", Audience: AudienceLeader, Required: true, Category: CategoryLeadershipTraining},
			{Fragment: "financial policy", Audience: AudienceLeader, Required: true, Category: CategoryLeadershipTraining},
		},
		[]string{
			"policy",
			"bylaws",
			"confidentiality",
			"communion",
			"baptism",
			"sacrament",
			"constitution",
			"statement of faith",
			"safety",
		},
	)
}
