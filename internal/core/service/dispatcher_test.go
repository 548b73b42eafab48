package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

type recordingInvoker struct {
	mu    sync.Mutex
	calls []domain.Action
	err   error
}

func (r *recordingInvoker) Invoke(ctx context.Context, action domain.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, action)
	return r.err
}

func (r *recordingInvoker) Calls() []domain.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Action(nil), r.calls...)
}

func TestDispatcher_Dispatch(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		wantKnown  bool
		wantAction domain.Action
	}{
		{"start pump", "START_PUMP", true, domain.ActionStartPump},
		{"stop pump", "STOP_PUMP", true, domain.ActionStopPump},
		{"partial", "PUMP", false, ""},
		{"trailing newline", "START_PUMP\n", false, ""},
		{"lower case", "start_pump", false, ""},
		{"leading space", " START_PUMP", false, ""},
		{"empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &recordingInvoker{}
			d := NewDispatcher(inv)

			res := d.Dispatch(context.Background(), []byte(tt.raw))
			if res.Known != tt.wantKnown {
				t.Errorf("Known = %v, want %v", res.Known, tt.wantKnown)
			}
			if res.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", res.Action, tt.wantAction)
			}

			calls := inv.Calls()
			if tt.wantKnown {
				if len(calls) != 1 || calls[0] != tt.wantAction {
					t.Errorf("invoker calls = %v, want [%s]", calls, tt.wantAction)
				}
			} else if len(calls) != 0 {
				t.Errorf("invoker calls = %v, want none", calls)
			}
		})
	}
}

func TestDispatcher_ActionErrorContained(t *testing.T) {
	boom := errors.New("exit status 1")
	d := NewDispatcher(&recordingInvoker{err: boom})

	res := d.Dispatch(context.Background(), []byte("START_PUMP"))
	if !errors.Is(res.Err, boom) {
		t.Errorf("Err = %v, want %v", res.Err, boom)
	}
}

func TestDispatcher_Metrics(t *testing.T) {
	reg := metric.NewRegistry()
	d := NewDispatcher(ActionInvokerFunc(func(context.Context, domain.Action) error { return nil }),
		WithDispatchMetrics(reg))

	ctx := context.Background()
	d.Dispatch(ctx, []byte("START_PUMP"))
	d.Dispatch(ctx, []byte("START_PUMP"))
	d.Dispatch(ctx, []byte("garbage-1"))
	d.Dispatch(ctx, []byte("garbage-2"))

	if got := testutil.ToFloat64(reg.Commands.WithLabelValues("START_PUMP")); got != 2 {
		t.Errorf("commands_total{START_PUMP} = %v, want 2", got)
	}
	// Arbitrary text collapses into one label value.
	if got := testutil.ToFloat64(reg.Commands.WithLabelValues(metric.UnknownCommand)); got != 2 {
		t.Errorf("commands_total{unknown} = %v, want 2", got)
	}
}
