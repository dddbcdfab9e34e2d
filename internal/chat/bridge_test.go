package chat

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

type failingCompleter struct{ err error }

func (c failingCompleter) Complete(context.Context, string) (string, error) {
	return "", c.err
}

func TestBridgeReturnsReply(t *testing.T) {
	t.Parallel()

	b := NewBridge(NewStubCompleter("keep it up"), "fallback", zap.NewNop().Sugar())
	if got := b.SendMessage(context.Background(), "how am I doing?"); got != "keep it up" {
		t.Fatalf("reply = %q, want %q", got, "keep it up")
	}
}

func TestBridgeFallsBackOnCompleterFailure(t *testing.T) {
	t.Parallel()

	b := NewBridge(failingCompleter{err: errors.New("boom")}, "try again later", zap.NewNop().Sugar())
	if got := b.SendMessage(context.Background(), "hello"); got != "try again later" {
		t.Fatalf("reply = %q, want fallback", got)
	}
}
