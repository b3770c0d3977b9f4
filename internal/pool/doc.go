// Package pool implements the two interchangeable executors the
// Orchestrator can drive: a Hybrid pool of long-lived workers draining a
// shared queue, and a simpler TaskSpawned pool that spawns one goroutine per
// submitted item. Both satisfy the Pool interface and report completions
// through an EventSink (the collector.Collector, structurally).
package pool
