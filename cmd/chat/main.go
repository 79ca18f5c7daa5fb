// Command chat is a terminal client for the health assistant. By default it
// runs the conversation in-process; with -server it talks to a running API
// over the chat websocket.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shivraj110504/RuralCare/internal/app/bootstrap"
	appconfig "github.com/shivraj110504/RuralCare/internal/config"
	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

func main() {
	server := flag.String("server", "", "chat websocket URL, e.g. ws://localhost:8080/chat/ws (empty runs in-process)")
	token := flag.String("token", os.Getenv("CHAT_ACCESS_TOKEN"), "bearer token for -server mode")
	session := flag.String("session", "", "session id to resume")
	plain := flag.Bool("plain", false, "disable markdown rendering")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		backend chatBackend
		err     error
	)
	if *server != "" {
		backend, err = dialRemote(ctx, *server, *token, *session)
	} else {
		backend, err = startLocal(ctx, *session)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
	defer backend.Close()

	out := newRenderer(os.Stdout, *plain)
	if err := run(ctx, backend, os.Stdin, out); err != nil && err != io.EOF {
		fmt.Fprintf(os.Stderr, "chat: %v\n", err)
		os.Exit(1)
	}
}

func startLocal(ctx context.Context, sessionID string) (chatBackend, error) {
	cfg := appconfig.Load()
	logger := logging.NewWithWriter(cfg.LogLevel, "text", os.Stderr)

	rt, err := bootstrap.BuildChatRuntime(ctx, cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	manager := conversation.NewManager(rt.Deps)
	o := manager.Open(ctx, sessionID, localUser())
	return &localBackend{o: o, quickReplies: conversation.DefaultQuickReplies, close: rt.Close}, nil
}

// localUser signs the terminal session in when CHAT_USER_ID is set.
func localUser() *conversation.User {
	id := strings.TrimSpace(os.Getenv("CHAT_USER_ID"))
	if id == "" {
		return nil
	}
	return &conversation.User{
		ID:    id,
		Name:  strings.TrimSpace(os.Getenv("CHAT_USER_NAME")),
		Email: strings.TrimSpace(os.Getenv("CHAT_USER_EMAIL")),
	}
}

const helpText = `Commands:
  /help        show this help
  /replies     list quick replies
  /cart <id>   add a recommended medicine to your cart
  /quit        leave
A bare number sends the matching quick reply.`

// run drives the read-eval-print loop until input ends or /quit.
func run(ctx context.Context, backend chatBackend, in io.Reader, out *renderer) error {
	for _, msg := range backend.History() {
		out.message(msg)
	}
	out.quickReplies(backend.QuickReplies())

	scanner := bufio.NewScanner(in)
	for {
		out.prompt()
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		if ctx.Err() != nil {
			return nil
		}

		cmd := parseInput(scanner.Text(), backend.QuickReplies())
		switch cmd.kind {
		case inputNone:
			continue
		case inputQuit:
			return nil
		case inputHelp:
			out.notice(helpText)
		case inputReplies:
			out.quickReplies(backend.QuickReplies())
		case inputInvalid:
			out.notice(cmd.text)
		case inputCart:
			msg, err := backend.AddToCart(ctx, cmd.itemID)
			if err != nil {
				out.notice(err.Error())
				continue
			}
			out.message(msg)
		case inputText, inputQuickReply:
			msg, err := backend.Submit(ctx, cmd.text, cmd.kind == inputQuickReply)
			if err != nil {
				out.notice(err.Error())
				continue
			}
			out.message(msg)
		}
	}
}
