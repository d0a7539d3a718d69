package sender

import (
	"errors"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/m3rciful/tgbots/core/logger"
)

func TestDispatcherRetriesTransportErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	err := d.Enqueue(logger.Background(), "send.text", "sendMessage", func() error {
		if calls.Add(1) < 3 {
			return syscall.ECONNRESET
		}
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()

	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
	if d.ErrorCount() != 0 {
		t.Fatalf("error count = %d, want 0", d.ErrorCount())
	}
}

func TestDispatcherDoesNotRetryAPIErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	var calls atomic.Int32
	_ = d.Enqueue(logger.Background(), "send.text", "sendMessage", func() error {
		calls.Add(1)
		return errors.New("telegram: chat not found (400)")
	})
	d.Close()

	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", d.ErrorCount())
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := NewDispatcher(Options{})
	d.Close()
	d.Close()
	err := d.Enqueue(logger.Background(), "send.text", "", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestClassifyAndSanitize(t *testing.T) {
	if got := classifyError(errors.New("telegram: Bad Gateway (502)")); got != "http_5xx" {
		t.Fatalf("classify 502 = %q", got)
	}
	msg := sanitizeErrorMessage(errors.New(`Post "https://api.telegram.org/bot123:ABC-def/sendMessage": EOF`))
	if want := `Post "https://api.telegram.org/bot<redacted>/sendMessage": EOF`; msg != want {
		t.Fatalf("sanitize = %q", msg)
	}
}
