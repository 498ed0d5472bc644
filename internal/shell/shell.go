package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/peterh/liner"
	"github.com/vk/keydeck/internal/ctxlog"
	"github.com/vk/keydeck/internal/deck"
	"github.com/vk/keydeck/internal/format"
	"github.com/vk/keydeck/internal/query"
)

const prompt = "keydeck> "

const helpText = `Commands:
  keywords              keywords in the deck with card counts
  cards KEYWORD         every card under KEYWORD
  find KEYWORD F=V ...  first card under KEYWORD matching all conditions
  format KEYWORD        card format of KEYWORD
  node NID              coordinates of node NID
  set SID               members of node set SID
  extra PID             extra node set attached to part PID
  help                  this text
  quit                  leave the shell
`

// Shell evaluates commands against one deck.
type Shell struct {
	deck        *deck.Deck
	table       *format.Table
	out         io.Writer
	color       bool
	historyPath string
}

// Option configures a Shell.
type Option func(*Shell)

// WithColor enables colored output.
func WithColor(on bool) Option {
	return func(s *Shell) { s.color = on }
}

// WithHistory loads and saves line history at path.
func WithHistory(path string) Option {
	return func(s *Shell) { s.historyPath = path }
}

// New returns a shell over d. The table resolves query field types.
func New(d *deck.Deck, table *format.Table, out io.Writer, opts ...Option) *Shell {
	s := &Shell{deck: d, table: table, out: out}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run reads commands from the terminal until quit, end of input or Ctrl-C.
func (s *Shell) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.Complete)

	if s.historyPath != "" {
		if f, err := os.Open(s.historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			f, err := os.Create(s.historyPath)
			if err != nil {
				logger.Warn("Shell history not saved.", "path", s.historyPath, "error", err)
				return
			}
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}()
	}

	fmt.Fprintf(s.out, "%d cards under %d keywords. Type help for commands.\n", s.deck.Len(), len(s.deck.Keywords()))
	for {
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			fmt.Fprintln(s.out)
			return nil
		case errors.Is(err, liner.ErrPromptAborted):
			return nil
		case err != nil:
			return fmt.Errorf("read command: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.Eval(ctx, line) {
			return nil
		}
	}
}

// Eval runs one command line and reports whether the session should end.
func (s *Shell) Eval(ctx context.Context, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	ctxlog.FromContext(ctx).Debug("Shell command.", "command", cmd, "args", arg)

	var err error
	switch strings.ToLower(cmd) {
	case "":
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprint(s.out, helpText)
	case "keywords", "kw":
		s.keywords()
	case "cards":
		err = s.cards(arg)
	case "find":
		err = s.find(arg)
	case "format":
		err = s.format(arg)
	case "node":
		err = s.node(arg)
	case "set":
		err = s.set(arg)
	case "extra":
		err = s.extra(arg)
	default:
		err = fmt.Errorf("unknown command %q, type help for a list", cmd)
	}
	if err != nil {
		fmt.Fprintln(s.out, s.paint(color.FgRed, "error: "+err.Error()))
	}
	return false
}

func (s *Shell) keywords() {
	for _, kw := range s.deck.Keywords() {
		fmt.Fprintf(s.out, "%s (%d)\n", s.paint(color.FgCyan, kw), len(s.deck.Cards(kw)))
	}
}

func (s *Shell) cards(arg string) error {
	if arg == "" {
		return errors.New("usage: cards KEYWORD")
	}
	cards := s.deck.Cards(arg)
	if len(cards) == 0 {
		fmt.Fprintf(s.out, "no cards under %s\n", strings.ToUpper(arg))
		return nil
	}
	for _, c := range cards {
		fmt.Fprintf(s.out, "%s %s\n", s.paint(color.FgGray, "line "+strconv.Itoa(c.Line)), c)
	}
	return nil
}

func (s *Shell) find(arg string) error {
	q, err := query.Parse(arg)
	if err != nil {
		return err
	}
	preds, err := q.Predicates(s.table)
	if err != nil {
		return err
	}
	c, ok := s.deck.FirstMatching(q.Keyword, preds)
	if !ok {
		fmt.Fprintf(s.out, "no match for %s\n", q)
		return nil
	}
	fmt.Fprintf(s.out, "%s %s\n", s.paint(color.FgGray, "line "+strconv.Itoa(c.Line)), c)
	return nil
}

func (s *Shell) format(arg string) error {
	e, ok := s.table.Lookup(arg)
	if !ok {
		return fmt.Errorf("no card format for keyword %s", strings.ToUpper(arg))
	}
	fmt.Fprintf(s.out, "*%s\n%s\n", e.Keyword, e)
	return nil
}

func (s *Shell) node(arg string) error {
	nid, err := parseID("node", arg)
	if err != nil {
		return err
	}
	p, ok := s.deck.Node(nid)
	if !ok {
		return fmt.Errorf("node %d not found", nid)
	}
	fmt.Fprintf(s.out, "node %d: (%g, %g, %g)\n", nid, p.X, p.Y, p.Z)
	return nil
}

func (s *Shell) set(arg string) error {
	sid, err := parseID("set", arg)
	if err != nil {
		return err
	}
	nids, ok := s.deck.NodeSet(sid)
	if !ok {
		return fmt.Errorf("node set %d not found", sid)
	}
	fmt.Fprintf(s.out, "set %d: %v\n", sid, nids)
	return nil
}

func (s *Shell) extra(arg string) error {
	pid, err := parseID("extra", arg)
	if err != nil {
		return err
	}
	nsid, ok := s.deck.ExtraNodeSet(pid)
	if !ok {
		return fmt.Errorf("part %d has no extra node set", pid)
	}
	fmt.Fprintf(s.out, "part %d: node set %d\n", pid, nsid)
	return nil
}

func parseID(cmd, arg string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("usage: %s ID", cmd)
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer id", cmd, arg)
	}
	return id, nil
}

var commands = []string{"cards", "extra", "find", "format", "help", "keywords", "node", "quit", "set"}

// Complete offers command names for the first word and deck keywords for
// the second word of cards, find and format.
func (s *Shell) Complete(line string) []string {
	cmd, rest, hasArg := strings.Cut(line, " ")
	if !hasArg {
		var out []string
		for _, c := range commands {
			if strings.HasPrefix(c, strings.ToLower(cmd)) {
				out = append(out, c)
			}
		}
		return out
	}
	switch strings.ToLower(cmd) {
	case "cards", "find", "format":
	default:
		return nil
	}
	if strings.Contains(strings.TrimLeft(rest, " "), " ") {
		return nil
	}
	prefix := strings.ToUpper(strings.TrimLeft(rest, " "))
	var keywords []string
	if strings.ToLower(cmd) == "format" {
		keywords = s.table.Keywords()
	} else {
		keywords = s.deck.Keywords()
		sort.Strings(keywords)
	}
	var out []string
	for _, kw := range keywords {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, cmd+" "+kw)
		}
	}
	return out
}

func (s *Shell) paint(c color.Color, text string) string {
	if !s.color {
		return text
	}
	return c.Render(text)
}
