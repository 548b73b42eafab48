// Package output renders pumpctl results as a table, JSON or YAML.
package output
