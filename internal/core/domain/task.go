package domain

import "strings"

// Task is a named command declared in a target.
// A task without a command is an alias that only runs its dependencies.
type Task struct {
	Name         InternedString
	Command      string
	Dependencies []InternedString
	WorkingDir   string
	Environment  map[string]string
	Description  string
}

// IsAlias reports whether the task only groups other tasks.
func (t Task) IsAlias() bool {
	return t.Command == ""
}

// JoinCommand renders an argument list as a single shell command line.
// Arguments containing whitespace or quotes are single-quoted.
func JoinCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = shellQuote(arg)
	}
	return strings.Join(quoted, " ")
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t\n'\"\\$`") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
