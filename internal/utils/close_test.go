package utils

import (
	"errors"
	"testing"

	"github.com/MrSnakeDoc/techtrack/internal/logger"
)

type closer struct {
	calls int
	err   error
}

func (c *closer) Close() error {
	c.calls++
	return c.err
}

func TestMustClose(t *testing.T) {
	for _, err := range []error{nil, errors.New("boom")} {
		c := &closer{err: err}
		MustClose(c, logger.NewNop(), "test")
		if c.calls != 1 {
			t.Errorf("calls = %d, want 1", c.calls)
		}
	}
}
