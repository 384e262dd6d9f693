package oracle

import (
	"context"
	"fmt"
)

// Oracle turns a system instruction plus a prompt into free text.
type Oracle interface {
	Invoke(ctx context.Context, system, prompt string) (string, error)
	Name() string
}

// Error reports an oracle call that produced no usable text. Detail is for
// logs only and is never shown to end users.
type Error struct {
	Oracle string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("oracle %s: %s: %v", e.Oracle, e.Detail, e.Err)
	}
	return fmt.Sprintf("oracle %s: %s", e.Oracle, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}
