// Package supervisor wires pumpd together and owns its lifecycle.
//
// A Supervisor holds everything that used to be process-wide state: the
// shutdown flag, the child process, the command listener and the optional
// status server. Run installs signal handling first, starts the child,
// binds the listener, and then blocks until a shutdown request, after which
// it raises the flag, stops and reaps the child, and closes the listener,
// each exactly once.
//
//	init --Run--> active --signal/ctx--> shutting_down --> torn_down
//
// A fatal startup error returns from Run without reaching active.
package supervisor
