// Package visits serves the liveness probes and keeps a durable visit
// counter. The count is a database row incremented by upsert, replacing the
// kind of process-wide mutable counter that loses its value on restart and
// races under concurrent handlers.
package visits
