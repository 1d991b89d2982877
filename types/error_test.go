package types

import (
	"errors"
	"testing"
)

func TestError_ChainingAndHelpers(t *testing.T) {
	t.Parallel()

	root := errors.New("handler blew up")
	paths := [][]string{{"c3", "c1", "source"}}
	err := NewError(ErrComputation, "node failed").
		WithCause(root).
		WithLabel("c").
		WithPaths(paths)

	if GetErrorCode(err) != ErrComputation {
		t.Fatalf("expected code %s, got %s", ErrComputation, GetErrorCode(err))
	}
	if !IsCode(err, ErrComputation) {
		t.Fatalf("expected IsCode to match")
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is unwrap to root")
	}
	if got := PathsOf(err); len(got) != 1 || got[0][0] != "c3" {
		t.Fatalf("expected paths to round-trip, got %v", got)
	}
	if got := err.Error(); got == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestError_CodeThroughWrapping(t *testing.T) {
	t.Parallel()

	inner := NewErrorf(ErrStructural, "cycle detected via node %q", "a")
	wrapped := errorsJoin(inner)

	if GetErrorCode(wrapped) != ErrStructural {
		t.Fatalf("expected code to survive wrapping, got %q", GetErrorCode(wrapped))
	}
	if IsCode(errors.New("plain"), ErrStructural) {
		t.Fatalf("plain errors must not match a code")
	}
}

func errorsJoin(err error) error {
	return &wrapper{err}
}

type wrapper struct{ err error }

func (w *wrapper) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapper) Unwrap() error { return w.err }
