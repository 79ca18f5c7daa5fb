package assistant

import (
	"fmt"
	"strings"
)

// BuildPrompt shapes user text for the external generator. The user's words
// are passed through untouched; only a short instruction frame is added.
func BuildPrompt(userText, userName string) string {
	greeting := ""
	if name := strings.TrimSpace(userName); name != "" {
		greeting = fmt.Sprintf("Hello %s, ", name)
	}
	return fmt.Sprintf("%sYou are an AI medical assistant. Provide a **concise, accurate** answer to:\n%s\n\nKeep the response short and factual.",
		greeting, strings.TrimSpace(userText))
}
