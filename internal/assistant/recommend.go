package assistant

import (
	"strings"

	"github.com/shivraj110504/RuralCare/internal/knowledge"
)

// Recommender cross-references conditions mentioned in a response with the
// medicine catalog.
type Recommender struct {
	kb      *knowledge.KnowledgeBase
	catalog *knowledge.Catalog
}

// NewRecommender wires a recommender over kb and catalog.
func NewRecommender(kb *knowledge.KnowledgeBase, catalog *knowledge.Catalog) *Recommender {
	if kb == nil || catalog == nil {
		panic("assistant: recommender needs a knowledge base and a catalog")
	}
	return &Recommender{kb: kb, catalog: catalog}
}

// Recommend scans responseText for every condition key (case-insensitive
// substring), maps each condition's medicines onto the catalog and returns
// the matches deduplicated by id in first-found order. No match yields an
// empty slice.
func (r *Recommender) Recommend(responseText string) []knowledge.CatalogItem {
	text := strings.ToLower(responseText)
	items := []knowledge.CatalogItem{}
	if strings.TrimSpace(text) == "" {
		return items
	}

	seen := make(map[int]struct{})
	r.kb.Each(func(cond knowledge.Condition) bool {
		if !strings.Contains(text, cond.Key) {
			return true
		}
		for _, medicine := range cond.Medicines {
			item, ok := r.catalog.FindByMedicine(medicine)
			if !ok {
				continue
			}
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			items = append(items, item)
		}
		return true
	})
	return items
}
