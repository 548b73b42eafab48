// Package cmdserver provides the TCP command listener.
//
// The protocol is one-shot and request-only: a client connects, writes a
// command, and the server performs a single read of up to ReadBuffer bytes,
// dispatches exactly those bytes, and closes the connection without writing
// anything back. There is no framing and no terminator; a command longer than
// the buffer is truncated.
//
// Each connection runs in its own goroutine that nobody waits for. Closing
// the listener only stops the accept loop; in-flight handlers and the actions
// they run are left to finish.
package cmdserver
