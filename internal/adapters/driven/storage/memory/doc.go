// Package memory provides in-memory implementations of driven ports.
// They back tests and runs with history or persistent config disabled.
package memory
