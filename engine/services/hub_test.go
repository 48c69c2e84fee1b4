package services

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

type fakeService struct {
	name    string
	deps    []string
	failErr error
	trace   *[]string
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Start() error {
	if f.failErr != nil {
		return f.failErr
	}
	*f.trace = append(*f.trace, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.trace = append(*f.trace, "stop "+f.name)
	return nil
}

func TestHubOrderAndReverseStop(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	h.Register(&fakeService{name: "screen", deps: []string{"store"}, trace: &trace})
	h.Register(&fakeService{name: "store", trace: &trace})
	h.Register(&fakeService{name: "audio", trace: &trace})

	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	h.StopAll()

	want := []string{"start audio", "start store", "start screen", "stop screen", "stop store", "stop audio"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("Expected %v, got %v", want, trace)
	}
}

func TestHubRollbackOnRequiredFailure(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	h.Register(&fakeService{name: "a", trace: &trace})
	h.Register(&fakeService{name: "b", deps: []string{"a"}, failErr: errors.New("boom"), trace: &trace})

	err := h.StartAll()
	if err == nil || !strings.Contains(err.Error(), "service b start failed") {
		t.Fatalf("Expected start failure, got %v", err)
	}
	want := []string{"start a", "stop a"}
	if !reflect.DeepEqual(trace, want) {
		t.Errorf("Expected %v, got %v", want, trace)
	}
	if h.Started("a") {
		t.Error("Rolled back service still reported as started")
	}
}

func TestHubOptionalFailureIsSkipped(t *testing.T) {
	var trace []string
	var logs bytes.Buffer
	h := NewHub(slog.New(slog.NewTextHandler(&logs, nil)))
	h.RegisterOptional(&fakeService{name: "audio", failErr: errors.New("no device"), trace: &trace})
	h.Register(&fakeService{name: "screen", trace: &trace})

	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if h.Started("audio") || !h.Started("screen") {
		t.Errorf("Unexpected started set, trace %v", trace)
	}
	if !strings.Contains(logs.String(), "optional service unavailable") {
		t.Errorf("Expected warning, got %q", logs.String())
	}
}

func TestHubRejectsBadGraphs(t *testing.T) {
	var trace []string
	h := NewHub(nil)
	if err := h.Register(&fakeService{name: "a", trace: &trace}); err != nil {
		t.Fatal(err)
	}
	if err := h.Register(&fakeService{name: "a", trace: &trace}); err == nil {
		t.Error("Expected duplicate registration error")
	}

	cyc := NewHub(nil)
	cyc.Register(&fakeService{name: "x", deps: []string{"y"}, trace: &trace})
	cyc.Register(&fakeService{name: "y", deps: []string{"x"}, trace: &trace})
	if err := cyc.StartAll(); err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("Expected circular dependency error, got %v", err)
	}

	missing := NewHub(nil)
	missing.Register(&fakeService{name: "x", deps: []string{"nope"}, trace: &trace})
	if err := missing.StartAll(); err == nil {
		t.Error("Expected unregistered dependency error")
	}
}
