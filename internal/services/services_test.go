package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"filmintel/internal/services"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "abc")
	id, ok := services.RequestIDFromContext(ctx)
	if !ok || id != "abc" {
		t.Fatalf("expected abc, got %q (ok=%v)", id, ok)
	}
}

func TestRequestIDEmptyIsNoop(t *testing.T) {
	ctx := services.WithRequestID(context.Background(), "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
}

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrValidation, "analysis", "script", "too short", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "analysis: script: too short") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", errors.New("boom"))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}
