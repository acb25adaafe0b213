// Package tool defines the closed set of supported Python test tools and
// dispatches discover, run and debug commands to them.
package tool

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownTool is returned when a tool name is not one of the supported tools.
	ErrUnknownTool = errors.New("tool: unknown tool")
	// ErrUnknownCommand is returned when a command name is not discover, run or debug.
	ErrUnknownCommand = errors.New("tool: unknown command")
	// ErrToolNotRegistered is returned when a supported tool has no implementation registered.
	ErrToolNotRegistered = errors.New("tool: not registered")
)

// Kind identifies a supported test tool. Adding a tool means adding a Kind.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnittest
	KindPytest
	KindNose
)

var kindNames = map[Kind]string{
	KindUnittest: "unittest",
	KindPytest:   "pytest",
	KindNose:     "nose",
}

// ParseKind maps a tool name to its Kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q (choose from %v)", ErrUnknownTool, name, Kinds())
}

// Kinds returns the names of all supported tools, sorted.
func Kinds() []string {
	names := make([]string, 0, len(kindNames))
	for _, n := range kindNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Valid reports whether k is one of the supported tools.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Command is one of the adapter subcommands.
type Command int

const (
	CommandUnknown Command = iota
	CommandDiscover
	CommandRun
	CommandDebug
)

var commandNames = map[Command]string{
	CommandDiscover: "discover",
	CommandRun:      "run",
	CommandDebug:    "debug",
}

// ParseCommand maps a subcommand name to its Command.
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if n == name {
			return c, nil
		}
	}
	return CommandUnknown, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

func (c Command) String() string {
	if n, ok := commandNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Command(%d)", int(c))
}
