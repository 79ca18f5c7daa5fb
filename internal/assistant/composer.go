package assistant

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shivraj110504/RuralCare/internal/knowledge"
)

// Disclaimer closes every condition advisory.
const Disclaimer = "⚠️ Always consult a doctor before taking any medication."

// GenericSymptomResponse answers complaints that name no known condition.
const GenericSymptomResponse = `I understand you're experiencing discomfort. For general pain relief, you can try:

💊 **Over-the-counter options:** Paracetamol or Ibuprofen
❌ **Avoid:** Heavy lifting, prolonged standing, high-impact activities
✅ **Home remedies:** Apply heat or ice, practice stretching, get adequate rest

` + Disclaimer

// ComposeCondition renders the fixed-structure advisory for a condition.
// Output depends only on its inputs.
func ComposeCondition(key string, cond knowledge.Condition) string {
	var b strings.Builder
	b.WriteString("🔹 **")
	b.WriteString(capitalize(key))
	b.WriteString("**\n")
	b.WriteString("💊 **Medicines:** ")
	b.WriteString(strings.Join(cond.Medicines, ", "))
	b.WriteString("\n")
	b.WriteString("❌ **Avoid:** ")
	b.WriteString(strings.Join(cond.Avoid, ", "))
	b.WriteString("\n")
	b.WriteString("✅ **Home Remedies:** ")
	b.WriteString(strings.Join(cond.Remedies, ", "))
	b.WriteString("\n\n")
	b.WriteString(Disclaimer)
	return b.String()
}

// ComposeGenericSymptom returns the templated pain-relief message.
func ComposeGenericSymptom() string {
	return GenericSymptomResponse
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
