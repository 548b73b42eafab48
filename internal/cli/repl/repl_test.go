package repl

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(ctx context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func runREPL(t *testing.T, s Sender, input string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithIO(strings.NewReader(input), &out)}, opts...)
	if err := New(s, opts...).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	return out.String()
}

func TestREPL_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "quit\n"},
		{"EOF", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSender{}
			runREPL(t, s, tt.input)
			if len(s.sent) != 0 {
				t.Errorf("sent = %v, want nothing", s.sent)
			}
		})
	}
}

func TestREPL_SendsLinesAsTyped(t *testing.T) {
	s := &fakeSender{}
	out := runREPL(t, s, "START_PUMP\n\n  \nSTOP_PUMP\r\n start_pump\nexit\n")

	want := []string{"START_PUMP", "STOP_PUMP", " start_pump"}
	if strings.Join(s.sent, "|") != strings.Join(want, "|") {
		t.Errorf("sent = %q, want %q", s.sent, want)
	}
	if !strings.Contains(out, `did you mean START_PUMP`) {
		t.Errorf("output should suggest START_PUMP:\n%s", out)
	}
}

func TestREPL_LastLineWithoutNewline(t *testing.T) {
	s := &fakeSender{}
	runREPL(t, s, "START_PUMP")
	if len(s.sent) != 1 || s.sent[0] != "START_PUMP" {
		t.Errorf("sent = %q", s.sent)
	}
}

func TestREPL_SendError(t *testing.T) {
	s := &fakeSender{err: errors.New("connection refused")}
	out := runREPL(t, s, "START_PUMP\nexit\n")
	if !strings.Contains(out, "Error: connection refused") {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_HelpAndHistory(t *testing.T) {
	s := &fakeSender{}
	out := runREPL(t, s, "help\nSTART_PUMP\nhistory\nexit\n")

	if !strings.Contains(out, "STOP_PUMP") {
		t.Errorf("help should list commands:\n%s", out)
	}
	if !strings.Contains(out, "2  START_PUMP") {
		t.Errorf("history should list entries:\n%s", out)
	}
	if len(s.sent) != 1 {
		t.Errorf("sent = %q, want only START_PUMP", s.sent)
	}
}

func TestREPL_PersistsHistory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "hist")
	runREPL(t, &fakeSender{}, "START_PUMP\nexit\n", WithHistory(NewHistory(file)))

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read history: %v", err)
	}
	if string(b) != "START_PUMP\nexit\n" {
		t.Errorf("history file = %q", b)
	}

	h := NewHistory(file)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if h.Get(1) != "START_PUMP" {
		t.Errorf("Get(1) = %q", h.Get(1))
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory("")
	h.maxSize = 3
	for _, e := range []string{"a", "b", "c", "d"} {
		h.Add(e)
	}
	if got := strings.Join(h.Entries(), ","); got != "b,c,d" {
		t.Errorf("entries = %s, want b,c,d", got)
	}
	if h.Get(0) != "d" || h.Get(5) != "" {
		t.Errorf("Get() = %q / %q", h.Get(0), h.Get(5))
	}
}

func TestCompleter(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   string
	}{
		{"START", "START_PUMP"},
		{"S", "START_PUMP,STOP_PUMP"},
		{"PUMP", "START_PUMP,STOP_PUMP"},
		{"XYZ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(c.Complete(tt.prefix), ","); got != tt.want {
			t.Errorf("Complete(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}

	if !c.Known("START_PUMP") || c.Known("START_PUMP\n") {
		t.Error("Known() must match exactly")
	}
}
