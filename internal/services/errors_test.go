package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"dcimsort/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrConflict, "sorting", "rename", "no free name", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sorting", "rename", "no free name"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestRunStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, services.StatusCompleted},
		{"canceled", fmt.Errorf("scan: %w", context.Canceled), services.StatusInterrupted},
		{"incomplete", services.Wrap(services.ErrIncomplete, "pipeline", "shutdown", "pipeline002", nil), services.StatusIncomplete},
		{"other", errors.New("disk full"), services.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.RunStatus(tt.err); got != tt.want {
				t.Fatalf("RunStatus = %q, want %q", got, tt.want)
			}
		})
	}
}
