package statement

import "strings"

// Rule assigns a category when any of its keywords appears in a
// transaction's description. Rules are checked in order and the first
// match wins.
type Rule struct {
	Keywords  []string
	Category  string
	KeepNotes bool // copy the description into Notes on match
}

// DefaultRules covers the recurring merchants worth auto-categorizing.
// Everything else stays uncategorized for manual review.
func DefaultRules() []Rule {
	return []Rule{
		{Keywords: []string{"Elior India", "GMS Salad Counter"}, Category: "Food", KeepNotes: true},
		{Keywords: []string{"Bmtc Bus"}, Category: "Transportation", KeepNotes: true},
	}
}

// applyRules matches the description against the rules, case-insensitively.
// It returns the category to assign, the notes to carry, and whether any
// rule matched.
func applyRules(rules []Rule, description string) (category, notes string, matched bool) {
	lower := strings.ToLower(description)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				if rule.KeepNotes {
					return rule.Category, description, true
				}
				return rule.Category, "", true
			}
		}
	}
	return "", "", false
}
