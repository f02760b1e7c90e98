package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestShowProgress(t *testing.T) {
	launchErr := errors.New("chromium exited")

	tests := []struct {
		name    string
		message string
		fn      func() error
		wantErr error
		wantLog string
	}{
		{
			name:    "launch succeeds",
			message: "Launching browser",
			fn:      func() error { return nil },
			wantLog: "Launching browser",
		},
		{
			name:    "message is not a format string",
			message: "Loading 100% of /ep/%d",
			fn:      func() error { return nil },
			wantLog: "Loading 100% of /ep/%d",
		},
		{
			name:    "launch error is returned as is",
			message: "Launching browser",
			fn:      func() error { return launchErr },
			wantErr: launchErr,
			wantLog: "Launching browser",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			SetLogOutput(&logs)
			defer SetLogOutput(os.Stderr)

			calls := 0
			err := ShowProgress(context.Background(), tt.message, func() error {
				calls++
				return tt.fn()
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ShowProgress() error = %v, want %v", err, tt.wantErr)
			}
			if calls != 1 {
				t.Errorf("fn called %d times, want 1", calls)
			}
			// stderr is not a terminal under go test, so the message is logged
			if !strings.Contains(logs.String(), tt.wantLog) {
				t.Errorf("log = %q, want to contain %q", logs.String(), tt.wantLog)
			}
		})
	}
}

func TestShowProgressSimple_Cancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	release := make(chan struct{})
	defer close(release)
	err := showProgressSimple(ctx, "Launching browser", func() error {
		<-release
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("showProgressSimple() error = %v, want deadline exceeded", err)
	}
}

func TestStepPrinter(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStepPrinter(&buf)

	ref := &PlaylistRef{URL: "https://site.test/ep/1", Name: "Episode One"}
	printer.Observe(Transition{From: StateInit, To: StateDiscovering})
	printer.Observe(Transition{From: StateDiscovering, To: StateNavigating, Ref: ref, Index: 0, Total: 3})
	printer.Observe(Transition{From: StateNavigating, To: StatePopupCheck, Ref: ref, Index: 0, Total: 3})
	printer.Observe(Transition{From: StatePersisting, To: StateIndexing, Total: 3})
	printer.Observe(Transition{From: StateIndexing, To: StateFailed})

	out := buf.String()
	for _, want := range []string{"Discovering playlist pages", "[1/3] Episode One", "Writing index", "Run failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("StepPrinter output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "\n") != 4 {
		t.Errorf("StepPrinter should print one line per reported step, got:\n%s", out)
	}
	// a bytes.Buffer is not a terminal, so no ANSI styling
	if strings.Contains(out, "\x1b[") {
		t.Errorf("StepPrinter should not style non-terminal output: %q", out)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateInit, "init"},
		{StatePopupCheck, "popup-check"},
		{StateDone, "done"},
		{StateFailed, "failed"},
		{State(42), "state(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintSuccess(&buf, "saved")
	PrintWarning(&buf, "careful")
	PrintError(&buf, "broken")

	if got := buf.String(); got != "saved\ncareful\nbroken\n" {
		t.Errorf("output = %q", got)
	}
}
