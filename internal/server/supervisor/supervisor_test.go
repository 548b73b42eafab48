package supervisor

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/robojar/pumpd/internal/core/domain"
	"github.com/robojar/pumpd/internal/server/config"
	"github.com/robojar/pumpd/internal/server/httpserver"
	"github.com/robojar/pumpd/internal/telemetry/metric"
)

type fakeInvoker struct {
	mu    sync.Mutex
	calls []domain.Action
	seen  chan domain.Action
}

func newFakeInvoker() *fakeInvoker {
	return &fakeInvoker{seen: make(chan domain.Action, 8)}
}

func (f *fakeInvoker) Invoke(ctx context.Context, action domain.Action) error {
	f.mu.Lock()
	f.calls = append(f.calls, action)
	f.mu.Unlock()
	f.seen <- action
	return nil
}

func testConfig(child ...string) *config.ServerConfig {
	cfg := config.Default()
	cfg.Server.Command.Port = 0
	cfg.Child.Command = child
	return cfg
}

type running struct {
	s     *Supervisor
	errCh chan error
}

func start(t *testing.T, opts Options) *running {
	t.Helper()
	if opts.Metrics == nil {
		opts.Metrics = metric.NewRegistry()
	}
	s := New(opts)
	r := &running{s: s, errCh: make(chan error, 1)}
	go func() { r.errCh <- s.Run(context.Background()) }()

	select {
	case <-s.Ready():
	case err := <-r.errCh:
		t.Fatalf("Run() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not become active")
	}
	t.Cleanup(func() {
		s.Shutdown()
		select {
		case <-r.errCh:
		case <-time.After(5 * time.Second):
		}
	})
	return r
}

func (r *running) wait(t *testing.T) error {
	t.Helper()
	select {
	case err := <-r.errCh:
		r.errCh <- err
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return")
		return nil
	}
}

func send(t *testing.T, addr net.Addr, payload string) {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestSupervisor_CommandAndShutdown(t *testing.T) {
	inv := newFakeInvoker()
	r := start(t, Options{Config: testConfig("sleep", "30"), Invoker: inv})
	s := r.s

	if s.State() != domain.StateActive {
		t.Fatalf("State() = %v, want active", s.State())
	}
	if s.ChildPID() <= 0 {
		t.Fatalf("ChildPID() = %d, want a live child", s.ChildPID())
	}
	if s.StartedAt().IsZero() {
		t.Error("StartedAt() should be set once active")
	}

	send(t, s.CommandAddr(), "START_PUMP")
	select {
	case a := <-inv.seen:
		if a != domain.ActionStartPump {
			t.Errorf("action = %q, want start_pump", a)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("START_PUMP was not dispatched")
	}

	send(t, s.CommandAddr(), "PUMP")

	s.Shutdown()
	if err := r.wait(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if s.State() != domain.StateTornDown {
		t.Errorf("State() = %v, want torn_down", s.State())
	}
	if !s.Flag().IsSet() {
		t.Error("shutdown flag should be set")
	}
	st := s.child.Status()
	if st == nil || st.Signal != syscall.SIGTERM {
		t.Errorf("child status = %+v, want reaped after SIGTERM", st)
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()
	if len(inv.calls) != 1 {
		t.Errorf("invocations = %v, want exactly one", inv.calls)
	}

	// The listener is closed after teardown.
	if _, err := net.DialTimeout("tcp", s.CommandAddr().String(), time.Second); err == nil {
		t.Error("command port should be closed after shutdown")
	}
}

func TestSupervisor_DegradedWithoutChild(t *testing.T) {
	r := start(t, Options{
		Config:  testConfig("pumpd-no-such-interpreter-xyz", "app.py"),
		Invoker: newFakeInvoker(),
	})

	if r.s.ChildPID() != 0 {
		t.Errorf("ChildPID() = %d, want 0", r.s.ChildPID())
	}
	if r.s.State() != domain.StateActive {
		t.Errorf("State() = %v, want active", r.s.State())
	}

	r.s.Shutdown()
	if err := r.wait(t); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestSupervisor_FatalChildSpawn(t *testing.T) {
	s := New(Options{Config: testConfig(), Invoker: newFakeInvoker(), Metrics: metric.NewRegistry()})

	err := s.Run(context.Background())
	if !errors.Is(err, domain.ErrChildSpawn) {
		t.Fatalf("Run() error = %v, want ErrChildSpawn", err)
	}
	if s.CommandAddr() != nil {
		t.Error("listener should not be bound after a fatal child error")
	}
	if s.State() != domain.StateInit {
		t.Errorf("State() = %v, want init", s.State())
	}
}

func TestSupervisor_BindFailureStopsChild(t *testing.T) {
	held, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatal(err)
	}
	defer held.Close()

	cfg := testConfig("sleep", "30")
	cfg.Server.Command.Port = held.Addr().(*net.TCPAddr).Port
	s := New(Options{Config: cfg, Invoker: newFakeInvoker(), Metrics: metric.NewRegistry()})

	err = s.Run(context.Background())
	if !errors.Is(err, domain.ErrListen) {
		t.Fatalf("Run() error = %v, want ErrListen", err)
	}
	if s.child.Status() == nil {
		t.Error("child should be stopped and reaped before Run returns")
	}
}

func TestSupervisor_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(Options{Config: testConfig("sleep", "30"), Invoker: newFakeInvoker(), Metrics: metric.NewRegistry()})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	<-s.Ready()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if s.ChildPID() != 0 {
		t.Error("child should be reaped")
	}
}

func TestSupervisor_SignalShutdown(t *testing.T) {
	reg := metric.NewRegistry()
	r := start(t, Options{Config: testConfig("sleep", "30"), Invoker: newFakeInvoker(), Metrics: reg})

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("send SIGTERM: %v", err)
	}
	if err := r.wait(t); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := testutil.ToFloat64(reg.ShutdownSignals); got != 1 {
		t.Errorf("shutdown_signals_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(reg.ChildRunning); got != 0 {
		t.Errorf("child_running = %v, want 0", got)
	}
}

func TestSupervisor_StatusEndpoint(t *testing.T) {
	cfg := testConfig("sleep", "30")
	cfg.Server.HTTP.Addr = "127.0.0.1:0"
	r := start(t, Options{Config: cfg, Invoker: newFakeInvoker()})

	addr := r.s.StatusAddr()
	if addr == nil {
		t.Fatal("status endpoint should be listening")
	}

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	var health httpserver.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || health.State != "active" {
		t.Errorf("healthz = %d %+v", resp.StatusCode, health)
	}
	if health.ChildPID != r.s.ChildPID() {
		t.Errorf("child_pid = %d, want %d", health.ChildPID, r.s.ChildPID())
	}

	mresp, err := http.Get("http://" + addr.String() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	mresp.Body.Close()
	if mresp.StatusCode != http.StatusOK {
		t.Errorf("/metrics status = %d", mresp.StatusCode)
	}
}

func TestSupervisor_RunTwice(t *testing.T) {
	r := start(t, Options{Config: testConfig("sleep", "30"), Invoker: newFakeInvoker()})
	if err := r.s.Run(context.Background()); err == nil {
		t.Error("second Run() should fail")
	}
}
