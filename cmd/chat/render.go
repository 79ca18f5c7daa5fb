package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/shivraj110504/RuralCare/internal/conversation"
)

const defaultWidth = 80

type renderer struct {
	w  io.Writer
	md *glamour.TermRenderer
}

// newRenderer renders assistant replies as markdown when w is a terminal.
func newRenderer(w io.Writer, plain bool) *renderer {
	r := &renderer{w: w}
	if plain {
		return r
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r
	}
	width := defaultWidth
	if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 20 {
		width = cols
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err == nil {
		r.md = md
	}
	return r
}

func (r *renderer) message(msg conversation.Message) {
	if msg.Role == conversation.RoleUser {
		fmt.Fprintf(r.w, "you: %s\n", msg.Text)
		return
	}
	text := msg.Text
	if r.md != nil {
		if rendered, err := r.md.Render(text); err == nil {
			text = strings.TrimRight(rendered, "\n")
		}
	}
	fmt.Fprintf(r.w, "assistant:\n%s\n", text)
	if len(msg.Recommendations) > 0 {
		fmt.Fprintln(r.w, "recommended medicines:")
		for _, item := range msg.Recommendations {
			fmt.Fprintf(r.w, "  [%d] %s  ₹%d  (/cart %d)\n", item.ID, item.Name, item.Price, item.ID)
		}
	}
}

func (r *renderer) quickReplies(replies []string) {
	if len(replies) == 0 {
		return
	}
	fmt.Fprintln(r.w, "quick replies:")
	for i, label := range replies {
		fmt.Fprintf(r.w, "  %d. %s\n", i+1, label)
	}
}

func (r *renderer) notice(text string) {
	fmt.Fprintf(r.w, "! %s\n", text)
}

func (r *renderer) prompt() {
	fmt.Fprint(r.w, "> ")
}
