package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/jpequegn/loadgen/internal/loadgen"
)

func TestParseTerminationMode(t *testing.T) {
	cases := map[string]loadgen.TerminationMode{
		"duration":                  loadgen.Duration,
		"complete-current-interval": loadgen.CompleteCurrentInterval,
		"strict-duration":           loadgen.StrictDuration,
	}
	for input, want := range cases {
		got, err := parseTerminationMode(input)
		if err != nil {
			t.Fatalf("parseTerminationMode(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("parseTerminationMode(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := parseTerminationMode("bogus"); err == nil {
		t.Error("expected an error for an unknown termination mode")
	}
}

func TestParsePoolType(t *testing.T) {
	if got, err := parsePoolType("hybrid"); err != nil || got != loadgen.HybridPoolType {
		t.Errorf("parsePoolType(hybrid) = %v, %v", got, err)
	}
	if got, err := parsePoolType("task-spawned"); err != nil || got != loadgen.TaskSpawnedPoolType {
		t.Errorf("parsePoolType(task-spawned) = %v, %v", got, err)
	}
	if _, err := parsePoolType("bogus"); err == nil {
		t.Error("expected an error for an unknown pool type")
	}
}

func TestDemoOperation_RespectsFailureRate(t *testing.T) {
	op := demoOperation(time.Millisecond, 1.0)
	if op(context.Background()) {
		t.Error("expected demo operation to always fail at failure rate 1.0")
	}

	op = demoOperation(time.Millisecond, 0.0)
	if !op(context.Background()) {
		t.Error("expected demo operation to always succeed at failure rate 0.0")
	}
}

func TestDemoOperation_RespectsCancellation(t *testing.T) {
	op := demoOperation(time.Hour, 0.0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if op(ctx) {
		t.Error("expected demo operation to report failure when context is already cancelled")
	}
}
