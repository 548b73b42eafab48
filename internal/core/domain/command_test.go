package domain

import "testing"

func TestCommand_Action(t *testing.T) {
	tests := []struct {
		name   string
		input  []byte
		action Action
		known  bool
	}{
		{"start pump", []byte("START_PUMP"), ActionStartPump, true},
		{"stop pump", []byte("STOP_PUMP"), ActionStopPump, true},
		{"trailing newline", []byte("START_PUMP\n"), "", false},
		{"trailing crlf", []byte("STOP_PUMP\r\n"), "", false},
		{"leading space", []byte(" START_PUMP"), "", false},
		{"lower case", []byte("start_pump"), "", false},
		{"partial", []byte("PUMP"), "", false},
		{"prefix only", []byte("START"), "", false},
		{"empty", []byte{}, "", false},
		{"embedded nul", []byte("START_PUMP\x00"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.input)
			action, ok := cmd.Action()
			if ok != tt.known {
				t.Fatalf("Action() known = %v, want %v", ok, tt.known)
			}
			if action != tt.action {
				t.Errorf("Action() = %q, want %q", action, tt.action)
			}
			if cmd.Known() != tt.known {
				t.Errorf("Known() = %v, want %v", cmd.Known(), tt.known)
			}
		})
	}
}

func TestActions(t *testing.T) {
	got := Actions()
	if len(got) != 2 || got[0] != ActionStartPump || got[1] != ActionStopPump {
		t.Errorf("Actions() = %v", got)
	}
}
