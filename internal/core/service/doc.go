// Package service holds pumpd's command handling logic.
//
// A Dispatcher turns the text read from one connection into at most one
// action and runs it through an ActionInvoker. The invoker is an interface
// so the listener can be exercised without launching real programs.
package service
