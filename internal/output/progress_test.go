package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestProgressBar_NonTTYPrintsOnlyFinalState(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(3, "Preloading categories")
	p.SetWriter(buf)

	p.Increment()
	p.Increment()
	if buf.Len() != 0 {
		t.Errorf("partial progress should not print on non-TTY, got %q", buf.String())
	}

	p.Increment()
	out := buf.String()
	if !strings.Contains(out, "100%") || !strings.Contains(out, "Preloading categories") {
		t.Errorf("final line missing percentage or label: %q", out)
	}

	p.Finish()
	if got := strings.Count(buf.String(), "100%"); got != 1 {
		t.Errorf("100%% printed %d times, want 1", got)
	}
}

func TestProgressBar_FinishFillsBar(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(10, "Working")
	p.SetWriter(buf)

	p.Increment()
	p.Finish()

	out := buf.String()
	if !strings.Contains(out, "["+strings.Repeat("=", 30)+"]") {
		t.Errorf("finished bar should be full, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Errorf("finished bar should end the line, got %q", out)
	}
}

func TestProgressBar_IncrementPastTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(1, "x")
	p.SetWriter(buf)

	p.Increment()
	p.Increment()
	if got := strings.Count(buf.String(), "100%"); got != 1 {
		t.Errorf("100%% printed %d times, want 1", got)
	}
}

func TestProgressBar_ZeroTotal(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(0, "nothing to do")
	p.SetWriter(buf)
	p.Finish()

	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("zero-total bar should report 100%%, got %q", buf.String())
	}
}

func TestProgressBar_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewProgress(50, "parallel")
	p.SetWriter(buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Increment()
		}()
	}
	wg.Wait()

	if !strings.Contains(buf.String(), "100%") {
		t.Errorf("expected completion after concurrent increments, got %q", buf.String())
	}
}

func TestSpinner_NonTTYPrintsOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Installing VLC")
	s.SetWriter(buf)

	s.Start()
	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	if got := buf.String(); got != "Installing VLC...\n" {
		t.Errorf("non-TTY spinner output = %q", got)
	}
}

func TestSpinner_StopIsIdempotent(t *testing.T) {
	s := NewSpinner("x")
	s.SetWriter(&bytes.Buffer{})
	s.Stop()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinner_StopWithMessage(t *testing.T) {
	buf := &bytes.Buffer{}
	s := NewSpinner("Installing")
	s.SetWriter(buf)
	s.Start()
	s.StopWithMessage("done")

	if !strings.HasSuffix(buf.String(), "done\n") {
		t.Errorf("output = %q, want trailing done line", buf.String())
	}
}

func TestSpinner_TextWithTimeout(t *testing.T) {
	s := NewSpinner("Installing").WithTimeout(5 * time.Minute)
	s.started = time.Now()
	if got := s.text(); !strings.Contains(got, "remaining") {
		t.Errorf("text() = %q, want remaining time", got)
	}

	s.UpdateMessage("Verifying")
	s.deadline = 0
	if got := s.text(); got != "Verifying" {
		t.Errorf("text() = %q, want Verifying", got)
	}
}
