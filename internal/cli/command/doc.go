// Package command defines the pumpctl command tree on urfave/cli/v2.
//
//	pumpctl [--server ADDR] send TEXT
//	pumpctl [--server ADDR] start-pump
//	pumpctl [--server ADDR] stop-pump
//	pumpctl --status-addr ADDR status [--output table|json|yaml]
//	pumpctl [--server ADDR] shell
package command
