// Package shell implements the line-oriented command interpreter behind
// "automaton shell". It edits the automata of a registry one command at a
// time; reading lines and drawing prompts is left to the caller.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/wolever/automaton"
	"github.com/wolever/automaton/registry"
)

// ErrUsage is wrapped when a command is called with the wrong arguments.
var ErrUsage = errors.New("usage")

// ErrUnknownCommand is returned for lines that don't start with a command.
var ErrUnknownCommand = errors.New("unknown command")

// Styles colors the verdicts printed by the shell. The zero value prints
// plain text.
type Styles struct {
	Accept func(string) string
	Reject func(string) string
	Info   func(string) string
}

func plain(s string) string { return s }

func (st *Styles) fill() {
	if st.Accept == nil {
		st.Accept = plain
	}
	if st.Reject == nil {
		st.Reject = plain
	}
	if st.Info == nil {
		st.Info = plain
	}
}

// Shell executes commands against a registry.
type Shell struct {
	reg    *registry.Registry
	out    io.Writer
	styles Styles
}

type command struct {
	usage string
	doc   string
	min   int
	max   int // -1 for no limit
	run   func(s *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"new":               {"new <name>", "create an empty automaton", 1, 1, (*Shell).newAutomaton},
		"compile":           {"compile <name> <regex>", "compile a regex into a minimal DFA", 2, 2, (*Shell).compile},
		"add-state":         {"add-state <name> [label]", "add a state (a fresh label when omitted)", 1, 2, (*Shell).addState},
		"remove-state":      {"remove-state <name> <label>", "remove a state and its transitions", 2, 2, (*Shell).removeState},
		"final":             {"final <name> <label>", "make a state final", 2, 2, (*Shell).final},
		"unfinal":           {"unfinal <name> <label>", "make a state non-final", 2, 2, (*Shell).unfinal},
		"start":             {"start <name> <label>", "make a state initial", 2, 2, (*Shell).start},
		"unstart":           {"unstart <name> <label>", "make a state non-initial", 2, 2, (*Shell).unstart},
		"add-transition":    {"add-transition <name> <from> <symbol> <to>...", "add transitions", 4, -1, (*Shell).addTransition},
		"remove-transition": {"remove-transition <name> <from> <symbol> <to>", "remove a transition", 4, 4, (*Shell).removeTransition},
		"make-total":        {"make-total <name>", "add a sink state so every transition is defined", 1, 1, (*Shell).makeTotal},
		"accept":            {"accept <name> [word]", "run a word (empty when omitted)", 1, 2, (*Shell).accept},
		"trace":             {"trace <name> [word]", "print the live states after each symbol", 1, 2, (*Shell).trace},
		"op":                {"op <operation> <target> <operand>...", "derive an automaton, see 'ops'", 3, 4, (*Shell).op},
		"ops":               {"ops", "list the operations", 0, 0, (*Shell).ops},
		"show":              {"show <name> [text|dot|mermaid|regex]", "print an automaton", 1, 2, (*Shell).show},
		"list":              {"list", "list the stored automata", 0, 0, (*Shell).list},
		"delete":            {"delete <name>", "delete an automaton", 1, 1, (*Shell).delete},
		"help":              {"help", "print this help", 0, 0, (*Shell).help},
	}
}

// New returns a shell over ``reg`` writing its output to ``out``.
func New(reg *registry.Registry, out io.Writer, styles Styles) *Shell {
	styles.fill()
	return &Shell{reg: reg, out: out, styles: styles}
}

// Exec runs one command line. It returns quit=true for "exit" and "quit".
// Blank lines and lines starting with '#' are ignored.
func (s *Shell) Exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}
	name, args := fields[0], fields[1:]
	if name == "exit" || name == "quit" {
		return true, nil
	}

	cmd, ok := commands[name]
	if !ok {
		return false, fmt.Errorf("%w %q, try 'help'", ErrUnknownCommand, name)
	}
	if len(args) < cmd.min || (cmd.max >= 0 && len(args) > cmd.max) {
		return false, fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}
	return false, cmd.run(s, ctx, args)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// edit applies ``fn`` to the named automaton and reports ``done`` or
// ``noop`` depending on whether it changed anything.
func (s *Shell) edit(ctx context.Context, name, done, noop string, fn func(a *automaton.Automaton) bool) error {
	changed, err := s.reg.Apply(ctx, name, fn)
	if err != nil {
		return err
	}
	if changed {
		s.printf("%s\n", done)
	} else {
		s.printf("%s\n", s.styles.Info(noop))
	}
	return nil
}

func (s *Shell) newAutomaton(ctx context.Context, args []string) error {
	if err := s.reg.Add(ctx, args[0], automaton.New()); err != nil {
		return err
	}
	s.printf("created %s\n", args[0])
	return nil
}

func (s *Shell) compile(ctx context.Context, args []string) error {
	a, err := s.reg.Compile(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	s.printf("%s: %d states\n", args[0], a.Len())
	return nil
}

func (s *Shell) addState(ctx context.Context, args []string) error {
	label := ""
	if len(args) > 1 {
		label = args[1]
	}
	var added string
	_, err := s.reg.Apply(ctx, args[0], func(a *automaton.Automaton) bool {
		a.AddState(label)
		states := a.States()
		added = states[len(states)-1].Label
		return true
	})
	if err != nil {
		return err
	}
	s.printf("added state %s\n", added)
	return nil
}

func (s *Shell) removeState(ctx context.Context, args []string) error {
	label := args[1]
	return s.edit(ctx, args[0], "removed "+label, "no state "+label, func(a *automaton.Automaton) bool {
		return a.RemoveState(label)
	})
}

func (s *Shell) final(ctx context.Context, args []string) error {
	label := args[1]
	return s.edit(ctx, args[0], label+" is final", "unchanged", func(a *automaton.Automaton) bool {
		return a.MakeStateFinal(label)
	})
}

func (s *Shell) unfinal(ctx context.Context, args []string) error {
	label := args[1]
	return s.edit(ctx, args[0], label+" is not final", "unchanged", func(a *automaton.Automaton) bool {
		return a.MakeStateUnfinal(label)
	})
}

func (s *Shell) start(ctx context.Context, args []string) error {
	label := args[1]
	return s.edit(ctx, args[0], label+" is initial", "unchanged", func(a *automaton.Automaton) bool {
		return a.SetStart(label)
	})
}

func (s *Shell) unstart(ctx context.Context, args []string) error {
	label := args[1]
	return s.edit(ctx, args[0], label+" is not initial", "unchanged", func(a *automaton.Automaton) bool {
		return a.RemoveStart(label)
	})
}

func (s *Shell) addTransition(ctx context.Context, args []string) error {
	from, symbol, to := args[1], args[2], args[3:]
	return s.edit(ctx, args[0], "added", "unchanged", func(a *automaton.Automaton) bool {
		added := false
		for _, target := range to {
			if a.AddTransition(from, symbol, target) {
				added = true
			}
		}
		return added
	})
}

func (s *Shell) removeTransition(ctx context.Context, args []string) error {
	from, symbol, to := args[1], args[2], args[3]
	return s.edit(ctx, args[0], "removed", "unchanged", func(a *automaton.Automaton) bool {
		return a.RemoveTransition(from, symbol, to)
	})
}

func (s *Shell) makeTotal(ctx context.Context, args []string) error {
	return s.edit(ctx, args[0], args[0]+" is total", "already total", func(a *automaton.Automaton) bool {
		if a.IsTotal() {
			return false
		}
		a.MakeTotal()
		return true
	})
}

func wordArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}

func (s *Shell) accept(ctx context.Context, args []string) error {
	word := wordArg(args)
	ok, err := s.reg.Accepts(ctx, args[0], word)
	if err != nil {
		return err
	}
	if ok {
		s.printf("%s\n", s.styles.Accept(fmt.Sprintf("accepted %q", word)))
	} else {
		s.printf("%s\n", s.styles.Reject(fmt.Sprintf("rejected %q", word)))
	}
	return nil
}

func (s *Shell) trace(ctx context.Context, args []string) error {
	a, err := s.reg.Get(ctx, args[0])
	if err != nil {
		return err
	}
	word := []rune(wordArg(args))
	for i, live := range a.Trace(string(word)) {
		prefix := "^"
		if i > 0 {
			prefix = string(word[i-1])
		}
		s.printf("%s {%s}\n", prefix, strings.Join(live, ","))
	}
	return nil
}

func (s *Shell) op(ctx context.Context, args []string) error {
	a, err := s.reg.Derive(ctx, args[0], args[1], args[2:]...)
	if err != nil {
		return err
	}
	s.printf("%s: %d states\n", args[1], a.Len())
	return nil
}

func (s *Shell) ops(ctx context.Context, args []string) error {
	for _, op := range registry.Operations() {
		s.printf("  %-12s %d  %s\n", op.Name, op.Arity, op.Doc)
	}
	return nil
}

func (s *Shell) show(ctx context.Context, args []string) error {
	a, err := s.reg.Get(ctx, args[0])
	if err != nil {
		return err
	}
	format := "text"
	if len(args) > 1 {
		format = args[1]
	}
	switch format {
	case "text":
		s.printf("%s", a)
	case "dot":
		s.printf("%s", automaton.ToDot(a))
	case "mermaid":
		s.printf("%s", automaton.ToMermaid(a))
	case "regex":
		regex, err := automaton.ToRegex(a)
		if err != nil {
			return err
		}
		s.printf("%s\n", regex)
	default:
		return fmt.Errorf("%w: %s", ErrUsage, commands["show"].usage)
	}
	return nil
}

func (s *Shell) list(ctx context.Context, args []string) error {
	names, err := s.reg.Names(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		s.printf("%s\n", s.styles.Info("no automata"))
	}
	for _, name := range names {
		s.printf("%s\n", name)
	}
	return nil
}

func (s *Shell) delete(ctx context.Context, args []string) error {
	if err := s.reg.Remove(ctx, args[0]); err != nil {
		return err
	}
	s.printf("deleted %s\n", args[0])
	return nil
}

func (s *Shell) help(ctx context.Context, args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		s.printf("  %-48s %s\n", cmd.usage, cmd.doc)
	}
	s.printf("  %-48s %s\n", "exit", "leave the shell")
	return nil
}
