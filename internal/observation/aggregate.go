package observation

import (
	"fmt"
	"sort"

	"github.com/haneulclass/saengibu-backend/internal/keyword"
	"github.com/haneulclass/saengibu-backend/internal/logger"
)

// intensityModifier wraps a keyword's auto text depending on how strongly the
// teacher marked the observation.
type intensityModifier struct {
	prefix string
	suffix string
}

var intensityModifiers = map[int]intensityModifier{
	1: {prefix: "가끔 "},
	2: {},
	3: {prefix: "꾸준히 "},
}

// Aggregator turns a student's keyword selections into descriptive clauses.
type Aggregator struct {
	catalog *keyword.Catalog
	log     *logger.Logger
}

func NewAggregator(catalog *keyword.Catalog, baseLog *logger.Logger) *Aggregator {
	var log *logger.Logger
	if baseLog != nil {
		log = baseLog.With("component", "ObservationAggregator")
	}
	return &Aggregator{catalog: catalog, log: log}
}

// Result carries the derived clauses plus non-fatal data-quality warnings
// (unknown keyword ids are skipped, never raised).
type Result struct {
	Clauses  []string
	Warnings []string
}

// Clauses derives ordered natural-language clauses from one student's
// selections. Combination sentences are matched first and consume their
// keywords so the individual clauses are not duplicated; remaining selections
// are rendered through their auto-text template with the intensity modifier
// applied. Individual clauses follow category display order, then selection
// timestamp.
func (a *Aggregator) Clauses(obs StudentObservation) Result {
	var res Result

	selected := make(map[string]bool, len(obs.SelectedKeywords))
	for _, sel := range obs.SelectedKeywords {
		selected[sel.KeywordID] = true
	}

	consumed := make(map[string]bool)
	for _, comb := range a.catalog.Combinations() {
		if !selected[comb.Primary] || consumed[comb.Primary] {
			continue
		}
		matched := false
		for _, rel := range comb.Related {
			if selected[rel] && !consumed[rel] {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		res.Clauses = append(res.Clauses, comb.Sentence)
		consumed[comb.Primary] = true
		for _, rel := range comb.Related {
			if selected[rel] {
				consumed[rel] = true
			}
		}
	}

	ordered := make([]SelectedKeyword, 0, len(obs.SelectedKeywords))
	for _, sel := range obs.SelectedKeywords {
		if !consumed[sel.KeywordID] {
			ordered = append(ordered, sel)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		oi := a.catalog.CategoryOrder(ordered[i].CategoryID)
		oj := a.catalog.CategoryOrder(ordered[j].CategoryID)
		if oi != oj {
			return oi < oj
		}
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	seen := make(map[string]bool, len(ordered))
	for _, sel := range ordered {
		if seen[sel.KeywordID] {
			continue
		}
		seen[sel.KeywordID] = true

		kw, err := a.catalog.Lookup(sel.KeywordID)
		if err != nil {
			warning := fmt.Sprintf("선택된 키워드 %q가 카탈로그에 없어 건너뜀", sel.KeywordID)
			res.Warnings = append(res.Warnings, warning)
			if a.log != nil {
				a.log.Warn("selected keyword missing from catalog", "keyword_id", sel.KeywordID, "student", obs.StudentName)
			}
			continue
		}
		res.Clauses = append(res.Clauses, renderClause(kw, sel.Intensity))
	}

	return res
}

func renderClause(kw keyword.Keyword, intensity int) string {
	mod, ok := intensityModifiers[intensity]
	if !ok {
		mod = intensityModifiers[2]
	}
	return mod.prefix + kw.AutoText + mod.suffix
}
