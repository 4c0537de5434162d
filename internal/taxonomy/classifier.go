package taxonomy

import (
	"strings"
)

const (
	scorePrimaryAnywhere = 10
	scorePrimaryInTitle  = 8
	scorePrimaryInHead   = 5
	scoreSecondary       = 3

	headWords = 5
)

type Category struct {
	Name      string   `yaml:"name"`
	Primary   []string `yaml:"primary"`
	Secondary []string `yaml:"secondary"`
	Exclude   []string `yaml:"exclude"`
}

type CategoryScore struct {
	Category string
	Score    int
	Excluded bool
}

// Classifier assigns a category by weighted keyword matching. It holds no
// mutable state, so a single value may be shared across goroutines.
type Classifier struct {
	categories []Category
}

// New builds a classifier over categories in the given order; earlier
// categories win ties. Keywords are normalized once here.
func New(categories []Category) *Classifier {
	compiled := make([]Category, 0, len(categories))
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		compiled = append(compiled, Category{
			Name:      name,
			Primary:   normalizeAll(c.Primary),
			Secondary: normalizeAll(c.Secondary),
			Exclude:   normalizeAll(c.Exclude),
		})
	}
	return &Classifier{categories: compiled}
}

// Categories returns the category names in tie-break order.
func (c *Classifier) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		out = append(out, cat.Name)
	}
	return out
}

// Classify returns the best category for a product, or false when nothing
// scored. description must already be plain text.
func (c *Classifier) Classify(title string, description string) (string, bool) {
	best := ""
	bestScore := 0

	for _, s := range c.Scores(title, description) {
		if s.Excluded {
			continue
		}
		if s.Score > bestScore {
			best = s.Category
			bestScore = s.Score
		}
	}

	return best, bestScore > 0
}

// Scores returns the per-category score breakdown in table order.
func (c *Classifier) Scores(title string, description string) []CategoryScore {
	nTitle := Normalize(title)
	nDesc := Normalize(description)
	head := firstWords(nTitle, headWords)

	out := make([]CategoryScore, 0, len(c.categories))
	for _, cat := range c.categories {
		if containsAny(nTitle, cat.Exclude) {
			out = append(out, CategoryScore{Category: cat.Name, Excluded: true})
			continue
		}

		score := 0
		// title and description are matched separately so a phrase never
		// spans the join between them
		if containsAny(nTitle, cat.Primary) || containsAny(nDesc, cat.Primary) {
			score += scorePrimaryAnywhere
		}
		if containsAny(nTitle, cat.Primary) {
			score += scorePrimaryInTitle
		}
		if containsAny(head, cat.Primary) {
			score += scorePrimaryInHead
		}
		if containsAny(nTitle, cat.Secondary) || containsAny(nDesc, cat.Secondary) {
			score += scoreSecondary
		}

		out = append(out, CategoryScore{Category: cat.Name, Score: score})
	}

	return out
}

func containsAny(text string, keywords []string) bool {
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func normalizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		// an empty keyword would match every product
		if n := Normalize(kw); n != "" {
			out = append(out, n)
		}
	}
	return out
}
