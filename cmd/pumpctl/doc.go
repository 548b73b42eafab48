// Package main provides the entry point for pumpctl, a client that sends
// one-shot commands to pumpd and reads its status endpoint.
package main
