// Package collector absorbs per-request events from a running load test and,
// on demand, finalizes them into a statistical LoadResult.
//
// The collector is a single-consumer actor: one goroutine owns all state and
// drains a large buffered inbox channel, so event producers (workers,
// orchestrator) never block on delivery and no locking is needed internally.
// Requesting the final result uses a one-shot reply channel embedded in the
// request, the same ask-pattern the teacher's higher layers use for
// request/response exchanges.
package collector
