package assistant

import (
	"sort"
	"strings"

	"github.com/shivraj110504/RuralCare/internal/knowledge"
)

// IntentKind identifies which branch of the response pipeline handles a message.
type IntentKind string

const (
	IntentGreeting       IntentKind = "greeting"
	IntentKnownCondition IntentKind = "known_condition"
	IntentGenericSymptom IntentKind = "generic_symptom"
	IntentUnclassified   IntentKind = "unclassified"
)

// Intent is the classifier's verdict. Key is the greeting phrase or the
// condition key, empty for the other kinds.
type Intent struct {
	Kind IntentKind
	Key  string
}

// DefaultGreetings maps greeting phrases to canned replies.
var DefaultGreetings = map[string]string{
	"hello":        "Hello! How can I assist you today?",
	"hi":           "Hi there! What can I help you with?",
	"hey":          "Hey! Do you have any medical-related questions?",
	"how are you":  "I'm just a chatbot, but I'm here to help!",
	"good morning": "Good morning! Hope you're doing well.",
	"good evening": "Good evening! How can I assist you?",
	"thank you":    "You're welcome! Stay healthy!",
	"thanks":       "You're welcome! Have a great day!",
}

// DefaultSymptomWords flag a message as a generic complaint when no known
// condition matched.
var DefaultSymptomWords = []string{"pain", "ache", "hurt", "sore", "uncomfortable", "feeling", "symptom"}

// Classifier decides which branch answers a message. It is a pure function
// of its construction inputs and the text.
type Classifier struct {
	kb           *knowledge.KnowledgeBase
	greetings    map[string]string
	symptomWords []string
}

// ClassifierOption customises a Classifier.
type ClassifierOption func(*Classifier)

// WithGreetings replaces the greeting table. Phrases are normalised to
// trimmed lowercase.
func WithGreetings(greetings map[string]string) ClassifierOption {
	return func(c *Classifier) {
		c.greetings = make(map[string]string, len(greetings))
		for phrase, reply := range greetings {
			c.greetings[normalize(phrase)] = reply
		}
	}
}

// WithSymptomWords replaces the generic-symptom vocabulary.
func WithSymptomWords(words []string) ClassifierOption {
	return func(c *Classifier) {
		c.symptomWords = c.symptomWords[:0]
		for _, w := range words {
			if w = normalize(w); w != "" {
				c.symptomWords = append(c.symptomWords, w)
			}
		}
	}
}

// NewClassifier builds a classifier over kb.
func NewClassifier(kb *knowledge.KnowledgeBase, opts ...ClassifierOption) *Classifier {
	if kb == nil {
		panic("assistant: knowledge base cannot be nil")
	}
	c := &Classifier{kb: kb}
	WithGreetings(DefaultGreetings)(c)
	WithSymptomWords(DefaultSymptomWords)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the intent for text. Greetings need an exact match after
// trimming and lowercasing. Conditions match by substring and the first key
// in knowledge base order wins.
func (c *Classifier) Classify(text string) Intent {
	query := normalize(text)
	if query == "" {
		return Intent{Kind: IntentUnclassified}
	}
	if _, ok := c.greetings[query]; ok {
		return Intent{Kind: IntentGreeting, Key: query}
	}
	if key, ok := c.firstCondition(query); ok {
		return Intent{Kind: IntentKnownCondition, Key: key}
	}
	for _, w := range c.symptomWords {
		if strings.Contains(query, w) {
			return Intent{Kind: IntentGenericSymptom}
		}
	}
	return Intent{Kind: IntentUnclassified}
}

// GreetingReply returns the canned reply for a greeting key.
func (c *Classifier) GreetingReply(key string) (string, bool) {
	reply, ok := c.greetings[normalize(key)]
	return reply, ok
}

// ContainsCondition reports whether text mentions any known condition.
func (c *Classifier) ContainsCondition(text string) bool {
	_, ok := c.firstCondition(normalize(text))
	return ok
}

// MatchAll returns every condition key contained in text, longest key first
// and knowledge base order among equal lengths. Classify does not use it;
// callers that want multi-condition answers can.
func (c *Classifier) MatchAll(text string) []string {
	query := normalize(text)
	if query == "" {
		return nil
	}
	type match struct {
		key   string
		order int
	}
	var matches []match
	for i, key := range c.kb.Keys() {
		if strings.Contains(query, key) {
			matches = append(matches, match{key: key, order: i})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if len(matches[i].key) != len(matches[j].key) {
			return len(matches[i].key) > len(matches[j].key)
		}
		return matches[i].order < matches[j].order
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.key
	}
	return out
}

func (c *Classifier) firstCondition(query string) (string, bool) {
	if query == "" {
		return "", false
	}
	var found string
	c.kb.Each(func(cond knowledge.Condition) bool {
		if strings.Contains(query, cond.Key) {
			found = cond.Key
			return false
		}
		return true
	})
	return found, found != ""
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
