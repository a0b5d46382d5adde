package bot

import "strings"

// Command is one of the fixed bot commands. Anything else starting with
// "/" is CommandUnknown.
type Command string

const (
	CommandStart   Command = "start"
	CommandHelp    Command = "help"
	CommandUnknown Command = "unknown"
)

// IsCommand reports whether the text is a command rather than a candidate
// transaction. Commands always short-circuit transaction parsing.
func IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// ParseCommand identifies the command by its first token, so trailing text
// after "/start" or "/help" does not change the routed command.
func ParseCommand(text string) Command {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return CommandUnknown
	}
	switch fields[0] {
	case "/start":
		return CommandStart
	case "/help":
		return CommandHelp
	default:
		return CommandUnknown
	}
}

// ReplyFor maps a recognized command to its static reply. Unknown commands
// return ok=false: they are deliberately dropped without a reply, matching
// the current product behavior. Flip this single branch to answer them.
func ReplyFor(cmd Command) (reply string, ok bool) {
	switch cmd {
	case CommandStart:
		return msgStart, true
	case CommandHelp:
		return msgHelp, true
	default:
		return "", false
	}
}
