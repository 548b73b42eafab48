package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sender delivers one command to pumpd.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	sender    Sender
	completer *Completer
	history   *History
	prompt    string
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO sets the input and output streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory sets the history store.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a new REPL instance sending through s.
func New(s Sender, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		sender:    s,
		completer: NewCompleter(),
		history:   NewHistory(""),
		prompt:    "pumpd> ",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads commands until exit, quit, EOF or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: history not loaded: %v\n", err)
	}
	defer func() {
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: history not saved: %v\n", err)
		}
	}()

	reader := bufio.NewReader(r.input)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.history.Add(line)

		switch strings.TrimSpace(line) {
		case "exit", "quit":
			return nil
		case "help":
			r.help()
			continue
		case "history":
			for i, e := range r.history.Entries() {
				fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
			}
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.output, "Error: %v\n", err)
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	if err := r.sender.Send(ctx, line); err != nil {
		return err
	}
	fmt.Fprintf(r.output, "sent %q\n", line)
	if !r.completer.Known(line) {
		if s := r.completer.Complete(strings.ToUpper(strings.TrimSpace(line))); len(s) > 0 {
			fmt.Fprintf(r.output, "note: pumpd ignores %q; did you mean %s?\n", line, strings.Join(s, " or "))
		} else {
			fmt.Fprintf(r.output, "note: pumpd ignores %q\n", line)
		}
	}
	return nil
}

func (r *REPL) help() {
	fmt.Fprintln(r.output, "Commands are sent exactly as typed:")
	for _, c := range r.completer.Commands() {
		fmt.Fprintf(r.output, "  %s\n", c)
	}
	fmt.Fprintln(r.output, "Local: help, history, exit, quit")
}
