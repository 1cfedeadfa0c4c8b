// Package shell is the terminal front end: a readline prompt that drives the
// same services as the web pages.
//
// Each input line is split into arguments (double quotes group words), the
// first argument picks the command, and the command writes its result to the
// shell's output writer. Tests drive Execute directly with a bytes.Buffer.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sakif/itemgraph/internal/service"
)

// ErrExit is returned by Execute and Run when the user typed exit or quit.
var ErrExit = errors.New("exit requested")

// Services are the operations the shell can call.
type Services struct {
	Users     *service.UserService
	Items     *service.ItemService
	Relations *service.RelationService
	Reports   *service.ReportService
}

// Shell reads commands and prints results.
type Shell struct {
	svc    Services
	rl     *readline.Instance
	out    io.Writer
	logger *slog.Logger
}

// New creates a Shell. rl may be nil when the shell only runs scripts or
// tests; out receives every command's output.
func New(svc Services, rl *readline.Instance, out io.Writer, logger *slog.Logger) *Shell {
	return &Shell{svc: svc, rl: rl, out: out, logger: logger}
}

// Run reads one line from the prompt and executes it.
//
// readline.ErrInterrupt (Ctrl+C) and io.EOF (Ctrl+D) are returned as is, so
// the caller's loop decides what each means.
func (s *Shell) Run(ctx context.Context) error {
	if s.rl == nil {
		return io.EOF
	}
	line, err := s.rl.Readline()
	if err != nil {
		return err
	}
	return s.ExecuteLine(ctx, line)
}

// ExecuteLine parses and executes a single input line. Blank lines and
// lines starting with # are ignored.
func (s *Shell) ExecuteLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args := ParseArgs(line)
	err := s.Execute(ctx, args)
	if err != nil && !errors.Is(err, ErrExit) {
		s.logger.Debug("command failed",
			slog.String("command", args[0]),
			slog.String("error", err.Error()),
		)
	}
	return err
}

// ExecuteScript runs every line of the file at path, stopping at the first
// failing command or at exit.
func (s *Shell) ExecuteScript(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := s.ExecuteLine(ctx, scanner.Text()); err != nil {
			if errors.Is(err, ErrExit) {
				return err
			}
			s.logger.Debug("script stopped",
				slog.String("script", path),
				slog.Int("line", lineNo),
			)
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	return nil
}

// ParseArgs splits input on spaces. Text between double quotes stays one
// argument, quotes removed, so `item add "Customer A" "Top-tier client"`
// yields four arguments. A pair of quotes with nothing between them gives an
// empty argument.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			quoted = true
		case (char == ' ' || char == '\t') && !inQuotes:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

// Execute runs one already-split command.
func (s *Shell) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "item":
		return s.handleItem(ctx, args[1:])
	case "items":
		return s.handleItems(ctx)
	case "link":
		return s.handleLink(ctx, args[1:])
	case "relations":
		return s.handleRelations(ctx)
	case "user":
		return s.handleUser(ctx, args[1:])
	case "users":
		return s.handleUsers(ctx)
	case "report":
		return s.handleReport(ctx)
	case "graph":
		return s.handleGraph(ctx, args[1:])
	case "help":
		s.printHelp(args[1:])
		return nil
	case "exit", "quit":
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s (try 'help')", args[0])
	}
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}
