package otel

import (
	"context"
	"testing"
)

func TestSetupNoEndpointIsNoop(t *testing.T) {
	t.Setenv("FRAME_OTEL_ENDPOINT", "")

	shutdown, err := Setup(context.Background(), "frame-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected a shutdown function")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestSetupDisabledIsNoop(t *testing.T) {
	t.Setenv("FRAME_OTEL_ENABLED", "false")
	t.Setenv("FRAME_OTEL_ENDPOINT", "http://localhost:4318")

	shutdown, err := Setup(context.Background(), "frame-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}
