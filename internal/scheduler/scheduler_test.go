package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestAddRejectsBadSpec(t *testing.T) {
	s := New(nil, zap.NewNop())
	err := s.Add(Job{Name: "bad", Spec: "every day", Run: func(context.Context) error { return nil }})
	if err == nil {
		t.Fatal("invalid spec accepted")
	}
}

func TestRunOnceAppliesTimeout(t *testing.T) {
	s := New(time.UTC, zap.NewNop())
	var deadline bool
	s.runOnce(Job{Name: "t", Timeout: time.Second, Run: func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return errors.New("logged, not returned")
	}})
	if !deadline {
		t.Fatal("job ran without a deadline")
	}
}

func TestRecoverWrapper(t *testing.T) {
	wrapped := recoverWrapper(zap.NewNop())(jobFunc(func() { panic("boom") }))
	wrapped.Run()
}

type jobFunc func()

func (f jobFunc) Run() { f() }
