package status_test

import (
	"testing"

	"github.com/gavioto/sysdb/internal/status"
)

func TestWorstAllSuccess(t *testing.T) {
	got := status.Worst([]status.Status{status.Success, status.Success})
	if got != status.Success {
		t.Fatalf("Worst = %v, want Success", got)
	}
}

func TestWorstStaleBeatsSuccess(t *testing.T) {
	got := status.Worst([]status.Status{status.Success, status.Stale})
	if got != status.Stale {
		t.Fatalf("Worst = %v, want Stale", got)
	}
}

func TestWorstErrorBeatsEverything(t *testing.T) {
	got := status.Worst([]status.Status{status.Success, status.Stale, status.IOError})
	if got != status.IOError {
		t.Fatalf("Worst = %v, want IOError", got)
	}
}

func TestIsError(t *testing.T) {
	cases := map[status.Status]bool{
		status.Success:  false,
		status.Stale:    false,
		status.NotFound: true,
		status.Conflict: true,
	}
	for s, want := range cases {
		if got := s.IsError(); got != want {
			t.Fatalf("%v.IsError() = %v, want %v", s, got, want)
		}
	}
}
