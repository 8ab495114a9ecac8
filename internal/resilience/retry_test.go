package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: time.Millisecond}
}

func TestDoVal_SuccessOnFirstAttempt(t *testing.T) {
	var calls int
	got, err := DoVal(context.Background(), fastPolicy(), func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestDoVal_SuccessAfterRetry(t *testing.T) {
	var calls int
	got, err := DoVal(context.Background(), fastPolicy(), func(_ context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", Transient(errors.New("navigation timeout"))
		}
		return "content", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "content" || calls != 3 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestDoVal_ExhaustsAttempts(t *testing.T) {
	var calls int
	_, err := DoVal(context.Background(), fastPolicy(), func(_ context.Context) (string, error) {
		calls++
		return "", Transient(errors.New("still down"))
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_NonTransientNoRetry(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastPolicy(), func(_ context.Context) error {
		calls++
		return errors.New("permanent: malformed url")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call for non-transient error, got %d", calls)
	}
}

func TestDo_ContextCancelStopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := Do(ctx, Policy{MaxAttempts: 5, Delay: 20 * time.Millisecond}, func(_ context.Context) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return Transient(errors.New("fail"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls > 2 {
		t.Errorf("expected retries to stop after cancel, got %d calls", calls)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("net::ERR_NAME_NOT_RESOLVED"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("tls handshake timeout"), true},
		{errors.New("invalid selector"), false},
		{Transient(errors.New("anything")), true},
	}
	for _, c := range cases {
		if got := IsTransient(c.err); got != c.want {
			t.Errorf("IsTransient(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
