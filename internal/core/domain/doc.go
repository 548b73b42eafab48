// Package domain defines the core value types of pumpd.
//
// Nothing in this package performs IO. It contains:
//
//   - Command: the text read from one connection and the recognized set
//   - Action: identifiers of external side effects a command can trigger
//   - State and ShutdownFlag: supervisor lifecycle bookkeeping
//   - Errors: coded errors for fatal startup failures
package domain
