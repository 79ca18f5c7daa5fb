package main

import (
	"fmt"
	"strconv"
	"strings"
)

type inputKind int

const (
	inputNone inputKind = iota
	inputText
	inputQuickReply
	inputCart
	inputHelp
	inputReplies
	inputQuit
	inputInvalid
)

type input struct {
	kind   inputKind
	text   string
	itemID int
}

// parseInput turns one typed line into a command. A bare number in range
// picks a quick reply; out of range it is sent as text.
func parseInput(line string, quickReplies []string) input {
	line = strings.TrimSpace(line)
	if line == "" {
		return input{kind: inputNone}
	}

	if strings.HasPrefix(line, "/") {
		fields := strings.Fields(line)
		switch strings.ToLower(fields[0]) {
		case "/quit", "/exit":
			return input{kind: inputQuit}
		case "/help":
			return input{kind: inputHelp}
		case "/replies":
			return input{kind: inputReplies}
		case "/cart":
			if len(fields) != 2 {
				return input{kind: inputInvalid, text: "usage: /cart <id>"}
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil || id <= 0 {
				return input{kind: inputInvalid, text: fmt.Sprintf("invalid item id %q", fields[1])}
			}
			return input{kind: inputCart, itemID: id}
		default:
			return input{kind: inputInvalid, text: fmt.Sprintf("unknown command %s, try /help", fields[0])}
		}
	}

	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(quickReplies) {
		return input{kind: inputQuickReply, text: quickReplies[n-1]}
	}
	return input{kind: inputText, text: line}
}
