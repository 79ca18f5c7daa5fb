package assistant

import (
	"regexp"
	"strings"
)

// GuardedReply answers messages that look like attempts to steer the
// generation service instead of asking a health question.
const GuardedReply = "I can only help with health questions. Tell me about your symptoms, or pick one of the common conditions below."

// Screening is the verdict on a piece of text. Reasons name the rules that
// fired, for logs only.
type Screening struct {
	Blocked bool
	Score   float64
	Reasons []string
}

type guardRule struct {
	re     *regexp.Regexp
	reason string
	weight float64
}

// Input scores at or above this never reach the generation service.
const inputBlockScore = 0.7

var inputRules = []guardRule{
	{regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above|earlier|your)\s+(instructions?|rules?|prompts?|guidelines?)`), "override_instructions", 0.9},
	{regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|my)\s+`), "role_reassignment", 0.7},
	// A bare "new instructions:" is common in dosing questions; only an
	// address to the assistant or an override cue after it counts.
	{regexp.MustCompile(`(?i)(your|the\s+assistant'?s?)\s+new\s+instructions?\s*:|new\s+(system\s+)?instructions?\s*:\s*(you\s+(are|will|must|should)|ignore|act\s+as|from\s+now)|system\s*prompt\s*:|<<\s*sys(tem)?\s*>>`), "new_instructions", 0.9},
	{regexp.MustCompile(`(?i)(pretend|imagine)\s+(that\s+)?(you\s+)?(have|don'?t\s+have)\s+(no\s+)?(rules?|restrictions?|limits?|safety)`), "pretend_no_rules", 0.9},
	{regexp.MustCompile(`(?i)jailbreak|DAN\s*mode|developer\s*mode|unrestricted\s*mode`), "jailbreak_keyword", 0.9},
	{regexp.MustCompile(`(?i)(reveal|show|print|repeat|tell)\s+(me\s+)?(your|the\s+(system|hidden|initial|original))\s+((system|hidden|initial)\s+)?(prompt|instructions)|(reveal|show|print|repeat)\s+(me\s+)?(the\s+)?(system|hidden|initial)\s+prompt`), "prompt_exfiltration", 0.8},
	{regexp.MustCompile(`(?i)(list|show|give|tell)\s+(me\s+)?(all\s+)?(the\s+)?other\s+(patients?|users?)('?s?)?\s+(data|names?|orders?|records?|emails?)`), "user_data_exfiltration", 0.8},
	{regexp.MustCompile(`(?i)\[/?INST\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>`), "special_tokens", 0.9},
	{regexp.MustCompile(`(?i)<\s*(script|iframe|object|embed)\b`), "html_injection", 0.6},
}

// ScreenInput scores user text before it is sent for generation. Several
// weaker signals together can still block: each extra match adds 0.1.
func ScreenInput(text string) Screening {
	if strings.TrimSpace(text) == "" {
		return Screening{}
	}
	var s Screening
	for _, rule := range inputRules {
		if !rule.re.MatchString(text) {
			continue
		}
		s.Reasons = append(s.Reasons, rule.reason)
		if rule.weight > s.Score {
			s.Score = rule.weight
		}
	}
	if n := len(s.Reasons); n > 1 {
		s.Score += float64(n-1) * 0.1
		if s.Score > 1 {
			s.Score = 1
		}
	}
	s.Blocked = s.Score >= inputBlockScore
	return s
}

var replyRules = []guardRule{
	{regexp.MustCompile(`(?i)my (system\s+)?(prompt|instructions?)\s+(is|are|says?|tells?)`), "prompt_disclosure", 1},
	{regexp.MustCompile(`(?i)(api[_\s]?key|secret[_\s]?key|access[_\s]?token)\s*[:=]\s*\S+`), "credential", 1},
	{regexp.MustCompile(`AKIA[A-Z0-9]{16}|AIza[0-9A-Za-z_\-]{35}`), "cloud_key", 1},
	{regexp.MustCompile(`(?i)(postgres(ql)?|redis)://\S+`), "connection_string", 1},
	{regexp.MustCompile(`(?i)other (patient|user)'?s?\s+(name|email|order|record)`), "other_user_reference", 1},
}

// ScreenReply checks generated text before it is shown. Any match blocks.
func ScreenReply(text string) Screening {
	var s Screening
	for _, rule := range replyRules {
		if rule.re.MatchString(text) {
			s.Reasons = append(s.Reasons, rule.reason)
			s.Score = 1
		}
	}
	s.Blocked = len(s.Reasons) > 0
	return s
}
