package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/pomo/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeFocus  Type = "focus"
	TypeRemove Type = "rm"
	TypeMode   Type = "mode"
	TypeTimers Type = "timers"
	TypeClear  Type = "clear"
)

// Names lists the palette commands in help order.
var Names = []Type{TypeAdd, TypeDone, TypeFocus, TypeRemove, TypeMode, TypeTimers, TypeClear}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title    string
	Priority model.Priority
	Project  string
	Note     string
}

type TargetArgs struct {
	Ref string
}

type ModeArgs struct {
	Mode model.Mode
}

type TimersArgs struct {
	Durations model.Durations
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Mode   *ModeArgs
	Timers *TimersArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, raw[len(parts[0]):])
	case TypeDone, TypeFocus, TypeRemove:
		return parseTarget(input, Type(head), args)
	case "remove", "delete":
		return parseTarget(input, TypeRemove, args)
	case TypeMode:
		return parseMode(input, args)
	case TypeTimers:
		return parseTimers(input, args)
	case TypeClear:
		return Command{Type: TypeClear, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads `title words [!priority] [#project] [-- note]`.
func parseAdd(raw, rest string) (Command, error) {
	note := ""
	if idx := strings.Index(rest, " --"); idx >= 0 {
		note = strings.TrimSpace(rest[idx+3:])
		rest = rest[:idx]
	}
	args := &AddArgs{Priority: model.PriorityMedium, Note: note}
	words := make([]string, 0)
	for _, tok := range strings.Fields(rest) {
		switch {
		case len(tok) > 1 && strings.HasPrefix(tok, "!"):
			p, err := model.ParsePriority(tok[1:])
			if err != nil {
				return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown priority %q", tok[1:])}
			}
			args.Priority = p
		case len(tok) > 1 && strings.HasPrefix(tok, "#"):
			args.Project = tok[1:]
		default:
			words = append(words, tok)
		}
	}
	args.Title = strings.Join(words, " ")
	if args.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: args}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task number or id", typ)}
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Ref: args[0]}}, nil
}

func parseMode(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "mode requires one of focus, break, write"}
	}
	m, err := model.ParseMode(args[0])
	if err != nil {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown mode %q", args[0])}
	}
	return Command{Type: TypeMode, Raw: raw, Mode: &ModeArgs{Mode: m}}, nil
}

func parseTimers(raw string, args []string) (Command, error) {
	if len(args) != 3 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "timers requires focus, break and write durations"}
	}
	secs := make([]int, 3)
	for i, a := range args {
		v, err := ParseClock(a)
		if err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: err.Error()}
		}
		secs[i] = v
	}
	d := model.Durations{Focus: secs[0], Break: secs[1], FreeWrite: secs[2]}
	return Command{Type: TypeTimers, Raw: raw, Timers: &TimersArgs{Durations: d}}, nil
}

// ParseClock accepts whole minutes ("25") or MM:SS ("04:30") and returns
// seconds.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	mins, secs, hasSecs := strings.Cut(s, ":")
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if !hasSecs {
		return m * 60, nil
	}
	sec, err := strconv.Atoi(secs)
	if err != nil || sec < 0 || sec > 59 || len(secs) != 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return m*60 + sec, nil
}
