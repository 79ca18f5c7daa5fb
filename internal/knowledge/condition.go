package knowledge

import (
	"fmt"
	"strings"
)

// Condition is one knowledge base entry: a named health issue with the
// medicines, things to avoid and home remedies we suggest for it.
type Condition struct {
	Key       string   `yaml:"key" json:"key"`
	Medicines []string `yaml:"medicines" json:"medicines"`
	Avoid     []string `yaml:"avoid" json:"avoid"`
	Remedies  []string `yaml:"remedies" json:"remedies"`
}

// KnowledgeBase is an immutable, ordered set of conditions. Iteration order is
// the order conditions were supplied in and is what the classifier's
// first-match rule relies on.
type KnowledgeBase struct {
	conditions []Condition
	index      map[string]int
}

// NewKnowledgeBase validates and freezes the supplied conditions.
func NewKnowledgeBase(conditions ...Condition) (*KnowledgeBase, error) {
	verr := &ValidationError{Subject: "knowledge base"}
	if len(conditions) == 0 {
		verr.add("at least one condition is required")
	}

	kb := &KnowledgeBase{
		conditions: make([]Condition, 0, len(conditions)),
		index:      make(map[string]int, len(conditions)),
	}
	for i, c := range conditions {
		key := c.Key
		switch {
		case strings.TrimSpace(key) == "":
			verr.add(fmt.Sprintf("condition %d: key is required", i))
			continue
		case key != strings.ToLower(strings.TrimSpace(key)):
			verr.add(fmt.Sprintf("condition %q: key must be lowercase and trimmed", key))
			continue
		}
		if _, dup := kb.index[key]; dup {
			verr.add(fmt.Sprintf("condition %q: duplicate key", key))
			continue
		}
		if len(c.Medicines) == 0 {
			verr.add(fmt.Sprintf("condition %q: medicines are required", key))
		}
		if len(c.Avoid) == 0 {
			verr.add(fmt.Sprintf("condition %q: avoid list is required", key))
		}
		if len(c.Remedies) == 0 {
			verr.add(fmt.Sprintf("condition %q: remedies are required", key))
		}

		kb.index[key] = len(kb.conditions)
		kb.conditions = append(kb.conditions, Condition{
			Key:       key,
			Medicines: cloneStrings(c.Medicines),
			Avoid:     cloneStrings(c.Avoid),
			Remedies:  cloneStrings(c.Remedies),
		})
	}

	if verr.HasProblems() {
		return nil, verr
	}
	return kb, nil
}

// MustKnowledgeBase is NewKnowledgeBase for static data known to be valid.
func MustKnowledgeBase(conditions ...Condition) *KnowledgeBase {
	kb, err := NewKnowledgeBase(conditions...)
	if err != nil {
		panic(err)
	}
	return kb
}

// Lookup returns a copy of the condition stored under key.
func (kb *KnowledgeBase) Lookup(key string) (Condition, bool) {
	if kb == nil {
		return Condition{}, false
	}
	i, ok := kb.index[key]
	if !ok {
		return Condition{}, false
	}
	return kb.conditions[i].clone(), true
}

// Keys returns condition keys in iteration order.
func (kb *KnowledgeBase) Keys() []string {
	if kb == nil {
		return nil
	}
	keys := make([]string, len(kb.conditions))
	for i, c := range kb.conditions {
		keys[i] = c.Key
	}
	return keys
}

// Len reports the number of conditions.
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.conditions)
}

// Each visits conditions in iteration order until fn returns false.
func (kb *KnowledgeBase) Each(fn func(Condition) bool) {
	if kb == nil {
		return
	}
	for _, c := range kb.conditions {
		if !fn(c.clone()) {
			return
		}
	}
}

func (c Condition) clone() Condition {
	return Condition{
		Key:       c.Key,
		Medicines: cloneStrings(c.Medicines),
		Avoid:     cloneStrings(c.Avoid),
		Remedies:  cloneStrings(c.Remedies),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
