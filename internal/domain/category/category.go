// Package category assigns a topical label to free text by keyword matching.
package category

import "strings"

// Category is a topical label plus the emoji name used to react with it.
type Category struct {
	Label string
	Icon  string
}

type definition struct {
	Category
	keywords []string
}

// Matching is substring based, so short keywords also hit inside longer words
// ("ai" matches "campaign"). Order decides ties: the first match wins.
var definitions = []definition{
	{
		Category: Category{Label: "AI & Automation", Icon: "robot_face"},
		keywords: []string{"ai", "bot", "automat", "otomatis", "machine learning", "gpt", "llm", "script"},
	},
	{
		Category: Category{Label: "Product & Features", Icon: "bulb"},
		keywords: []string{"feature", "fitur", "product", "produk", "app", "aplikasi", "dashboard"},
	},
	{
		Category: Category{Label: "Process & Workflow", Icon: "gear"},
		keywords: []string{"process", "proses", "workflow", "meeting", "rapat", "sop", "approval"},
	},
	{
		Category: Category{Label: "Marketing & Growth", Icon: "chart_with_upwards_trend"},
		keywords: []string{"marketing", "promo", "growth", "social media", "brand", "konten", "content"},
	},
	{
		Category: Category{Label: "Customer Experience", Icon: "handshake"},
		keywords: []string{"customer", "pelanggan", "client", "klien", "support", "feedback", "ux"},
	},
	{
		Category: Category{Label: "Team & Culture", Icon: "tada"},
		keywords: []string{"team", "tim", "culture", "budaya", "outing", "hiring", "onboarding"},
	},
	{
		Category: Category{Label: "Cost Saving", Icon: "moneybag"},
		keywords: []string{"cost", "biaya", "hemat", "budget", "saving", "efisien"},
	},
}

// Miscellaneous is returned when no keyword matches.
var Miscellaneous = Category{Label: "Miscellaneous", Icon: "sparkles"}

// Categorize returns the first category with a keyword contained in text.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	for _, def := range definitions {
		for _, kw := range def.keywords {
			if strings.Contains(lower, kw) {
				return def.Category
			}
		}
	}
	return Miscellaneous
}

// Labels lists every label Categorize can return, in matching order.
func Labels() []string {
	labels := make([]string, 0, len(definitions)+1)
	for _, def := range definitions {
		labels = append(labels, def.Label)
	}
	return append(labels, Miscellaneous.Label)
}

// IconFor returns the emoji name of a stored label, falling back to the miscellaneous icon.
func IconFor(label string) string {
	for _, def := range definitions {
		if def.Label == label {
			return def.Icon
		}
	}
	return Miscellaneous.Icon
}
