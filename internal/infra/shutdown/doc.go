// Package shutdown turns termination signals into an orderly teardown.
//
// A Handler records SIGINT and SIGTERM as a shutdown request and nothing
// more; the teardown hooks run later on the goroutine blocked in Wait, never
// inside signal delivery. Repeated signals are counted and reported through
// OnSignal callbacks but do not run the hooks a second time.
//
// Usage:
//
//	h := shutdown.NewHandler(0)
//	h.Notify()
//	defer h.Stop()
//	h.OnShutdown(func(ctx context.Context) error { return srv.Close() })
//	err := h.Wait(ctx)
package shutdown
