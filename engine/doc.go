// Package engine implements the routine execution engine: a thread-safe skill
// registry, designation resolution, and the per-run driver that maintains the
// routine stack, streams events, and brokers ask_user suspensions.
//
// An Engine is an explicit instance constructed with its drive, logger and
// configuration; there is no process-global engine. Multiple runs may execute
// concurrently against one engine, each with a fully independent routine
// stack. The drive is the only resource shared across runs.
package engine
