// Package insights turns trailing spending totals into savings advice using
// a fixed table of threshold rules.
package insights

import (
	"fmt"
	"math"

	"pocketplan/internal/models"
)

// Type classifies an insight for display.
type Type string

const (
	TypeWarning     Type = "warning"
	TypeTip         Type = "tip"
	TypeOpportunity Type = "opportunity"
)

// CategoryTotal is the amount spent in one category over the trailing window, in cents.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// Insight is one piece of advice with the estimated saving in cents.
type Insight struct {
	Type             Type   `json:"type"`
	Category         string `json:"category"`
	Message          string `json:"message"`
	PotentialSavings int64  `json:"potential_savings"`
}

// Rule is one entry of the rule table.
//
// A rule with a Category is checked against every matching CategoryTotal and
// fires when Fires returns true. A rule without a Category fires exactly once
// per evaluation with a zero CategoryTotal.
type Rule struct {
	Name     string
	Category string
	Fires    func(total int64) bool
	Build    func(ct CategoryTotal) Insight
}

// DefaultRules is the built-in rule table, in evaluation order.
var DefaultRules = []Rule{
	{
		Name:     "transport_overspend",
		Category: "transport",
		Fires:    above(50000),
		Build: func(ct CategoryTotal) Insight {
			return Insight{
				Type:             TypeWarning,
				Category:         "transport",
				Message:          fmt.Sprintf("You've spent %s on transport in the last 30 days.", FormatCents(ct.Total)),
				PotentialSavings: 5000,
			}
		},
	},
	{
		Name:     "food_overspend",
		Category: "food",
		Fires:    above(60000),
		Build: func(ct CategoryTotal) Insight {
			return Insight{
				Type:             TypeTip,
				Category:         "food",
				Message:          "Meal planning could save up to 25%",
				PotentialSavings: int64(math.Round(float64(ct.Total) * 0.25)),
			}
		},
	},
	{
		Name: "energy_provider",
		Build: func(CategoryTotal) Insight {
			return Insight{
				Type:             TypeOpportunity,
				Category:         "utilities",
				Message:          "Switch to cheaper energy provider",
				PotentialSavings: 4500,
			}
		},
	},
}

// Engine evaluates a rule table.
type Engine struct {
	rules []Rule
}

// NewEngine returns an engine over rules. A nil table uses DefaultRules.
func NewEngine(rules []Rule) *Engine {
	if rules == nil {
		rules = DefaultRules
	}
	return &Engine{rules: rules}
}

// Evaluate applies every rule. Totals are first merged by normalized category,
// so "Food" and "food" count as one. Category rules fire in order of first
// appearance; for one category they fire in table order. Rules without a
// category come last. Rules are independent and never suppress each other.
func (e *Engine) Evaluate(totals []CategoryTotal) []Insight {
	result := make([]Insight, 0, len(e.rules))

	for _, ct := range mergeTotals(totals) {
		for _, r := range e.rules {
			if r.Category == "" || r.Category != ct.Category {
				continue
			}
			if r.Fires == nil || r.Fires(ct.Total) {
				result = append(result, r.Build(ct))
			}
		}
	}

	for _, r := range e.rules {
		if r.Category == "" {
			result = append(result, r.Build(CategoryTotal{}))
		}
	}
	return result
}

// Default is what clients get when the spending totals could not be loaded.
func (e *Engine) Default() []Insight {
	return e.Evaluate(nil)
}

// Evaluate runs the built-in rule table.
func Evaluate(totals []CategoryTotal) []Insight {
	return NewEngine(nil).Evaluate(totals)
}

// Default is the fallback list of the built-in rule table.
func Default() []Insight {
	return NewEngine(nil).Default()
}

// mergeTotals sums totals per normalized category, keeping first-seen order.
func mergeTotals(totals []CategoryTotal) []CategoryTotal {
	merged := make([]CategoryTotal, 0, len(totals))
	index := make(map[string]int, len(totals))
	for _, ct := range totals {
		category := models.NormalizeCategory(ct.Category)
		if i, ok := index[category]; ok {
			merged[i].Total += ct.Total
			continue
		}
		index[category] = len(merged)
		merged = append(merged, CategoryTotal{Category: category, Total: ct.Total})
	}
	return merged
}

// FormatCents renders cents as a dollar amount, e.g. 65050 -> "$650.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func above(threshold int64) func(int64) bool {
	return func(total int64) bool { return total > threshold }
}
