// Package drive contains concrete Drive implementations. The Drive contract
// itself resides in the core package; depend on core.Drive in your code and
// select an implementation (like the in-memory store below) at wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends (object stores, databases, remote drives) to be added without
// introducing dependency cycles.
package drive
