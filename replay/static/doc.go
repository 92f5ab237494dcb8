// Package static is a replay.Engine that answers from a YAML capture
// description instead of a live replay. It backs the fdbg command and the
// session tests.
package static
