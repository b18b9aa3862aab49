// Package keyword holds the static observation vocabulary: categorized
// keywords with weights and auto-text templates, plus known keyword
// combinations that map to higher-confidence sentences. The catalog is loaded
// once at startup and never mutated afterwards; any change is a data edit.
package keyword

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Positivity string

const (
	PositivityPositive    Positivity = "positive"
	PositivityNeutral     Positivity = "neutral"
	PositivityImprovement Positivity = "improvement"
)

func (p Positivity) Valid() bool {
	switch p {
	case PositivityPositive, PositivityNeutral, PositivityImprovement:
		return true
	default:
		return false
	}
}

type Keyword struct {
	ID          string     `yaml:"id" json:"id"`
	Text        string     `yaml:"text" json:"text"`
	CategoryID  string     `yaml:"-" json:"category_id"`
	Weight      int        `yaml:"weight" json:"weight"`
	Frequency   int        `yaml:"frequency" json:"frequency"`
	Positivity  Positivity `yaml:"positivity" json:"positivity"`
	AutoText    string     `yaml:"auto_text" json:"auto_text"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
}

type Category struct {
	ID       string    `yaml:"id" json:"id"`
	Name     string    `yaml:"name" json:"name"`
	Order    int       `yaml:"order" json:"order"`
	Keywords []Keyword `yaml:"keywords" json:"keywords"`
}

// Combination maps a known cluster of co-occurring keywords to a single
// pre-written sentence. Matching is a containment test: the primary id plus at
// least one related id must be present in a student's selected set.
type Combination struct {
	Primary  string   `yaml:"primary" json:"primary"`
	Related  []string `yaml:"related" json:"related"`
	Sentence string   `yaml:"sentence" json:"sentence"`
}

type catalogFile struct {
	Categories   []Category    `yaml:"categories"`
	Combinations []Combination `yaml:"combinations"`
}

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("keyword not found: %q", e.ID)
}

type Catalog struct {
	categories    []Category
	combinations  []Combination
	byID          map[string]Keyword
	categoryOrder map[string]int
}

// Load parses and validates the embedded catalog. Validation failures are
// startup errors, never deferred to use time.
func Load() (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(catalogYAML, &f); err != nil {
		return nil, fmt.Errorf("parse keyword catalog: %w", err)
	}
	return build(f.Categories, f.Combinations)
}

func build(categories []Category, combinations []Combination) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("keyword catalog has no categories")
	}

	sorted := make([]Category, len(categories))
	copy(sorted, categories)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	byID := make(map[string]Keyword)
	categoryOrder := make(map[string]int, len(sorted))

	for ci := range sorted {
		cat := &sorted[ci]
		if strings.TrimSpace(cat.ID) == "" {
			return nil, fmt.Errorf("category %d missing id", ci)
		}
		if _, dup := categoryOrder[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category id: %q", cat.ID)
		}
		categoryOrder[cat.ID] = cat.Order

		for ki := range cat.Keywords {
			kw := &cat.Keywords[ki]
			kw.CategoryID = cat.ID
			if strings.TrimSpace(kw.ID) == "" {
				return nil, fmt.Errorf("category %q keyword %d missing id", cat.ID, ki)
			}
			if _, dup := byID[kw.ID]; dup {
				return nil, fmt.Errorf("duplicate keyword id: %q", kw.ID)
			}
			if strings.TrimSpace(kw.AutoText) == "" {
				return nil, fmt.Errorf("keyword %q missing auto_text", kw.ID)
			}
			if kw.Weight < 1 || kw.Weight > 5 {
				return nil, fmt.Errorf("keyword %q weight out of range: %d", kw.ID, kw.Weight)
			}
			if kw.Frequency < 0 {
				return nil, fmt.Errorf("keyword %q frequency negative: %d", kw.ID, kw.Frequency)
			}
			if !kw.Positivity.Valid() {
				return nil, fmt.Errorf("keyword %q invalid positivity: %q", kw.ID, kw.Positivity)
			}
			byID[kw.ID] = *kw
		}
	}

	for i, comb := range combinations {
		if _, ok := byID[comb.Primary]; !ok {
			return nil, fmt.Errorf("combination %d primary %q not in catalog", i, comb.Primary)
		}
		if len(comb.Related) == 0 {
			return nil, fmt.Errorf("combination %d has no related keywords", i)
		}
		for _, rel := range comb.Related {
			if _, ok := byID[rel]; !ok {
				return nil, fmt.Errorf("combination %d related %q not in catalog", i, rel)
			}
		}
		if strings.TrimSpace(comb.Sentence) == "" {
			return nil, fmt.Errorf("combination %d missing sentence", i)
		}
	}

	return &Catalog{
		categories:    sorted,
		combinations:  combinations,
		byID:          byID,
		categoryOrder: categoryOrder,
	}, nil
}

func (c *Catalog) Lookup(keywordID string) (Keyword, error) {
	kw, ok := c.byID[keywordID]
	if !ok {
		return Keyword{}, &NotFoundError{ID: keywordID}
	}
	return kw, nil
}

// Categories returns categories in display order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

func (c *Catalog) Combinations() []Combination {
	return c.combinations
}

// CategoryOrder returns the display order for a category id; unknown
// categories sort last.
func (c *Catalog) CategoryOrder(categoryID string) int {
	if n, ok := c.categoryOrder[categoryID]; ok {
		return n
	}
	return int(^uint(0) >> 1)
}
