// Package connection provides pumpctl's clients.
//
// CommandClient speaks the one-shot command protocol: dial, write the command
// bytes exactly as given, close. The server never replies, so success only
// means the bytes were handed to the kernel.
//
// StatusClient reads the optional HTTP status endpoint.
package connection
