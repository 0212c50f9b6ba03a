package channel

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLineOrdering(t *testing.T) {
	ctx := context.Background()
	line := NewLine(4)
	for _, payload := range []string{"a", "b", "c"} {
		assert.NoError(t, line.Send(ctx, payload))
	}
	for _, expect := range []string{"a", "b", "c"} {
		actual, err := line.Receive(ctx)
		assert.NoError(t, err)
		assert.Equal(t, expect, actual)
	}
}

func TestLineCloseDrainsBuffered(t *testing.T) {
	ctx := context.Background()
	line := NewLine(2)
	assert.NoError(t, line.Send(ctx, "pending"))
	line.Close()

	actual, err := line.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "pending", actual)

	_, err = line.Receive(ctx)
	assert.ErrorIs(t, err, ErrClosed)

	assert.ErrorIs(t, line.Send(ctx, "late"), ErrClosed)

	// Close is idempotent.
	line.Close()
}

func TestLineContextCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	line := NewLine(0)

	_, err := line.Receive(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = line.Send(ctx, "nobody listening")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLineSynchronousHandoff(t *testing.T) {
	ctx := context.Background()
	line := NewLine(0)
	go func() {
		_ = line.Send(ctx, "ping")
	}()
	actual, err := line.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "ping", actual)
}

func TestJoin(t *testing.T) {
	ctx := context.Background()
	in := NewLine(1)
	out := NewLine(1)
	conn := Join(in, out)

	assert.NoError(t, in.Send(ctx, "command"))
	actual, err := conn.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "command", actual)

	assert.NoError(t, conn.Send(ctx, "response"))
	actual, err = out.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "response", actual)

	assert.NoError(t, conn.Close())
	_, err = conn.Receive(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStdio(t *testing.T) {
	ctx := context.Background()
	reader := strings.NewReader("first\nsecond\n")
	var builder strings.Builder
	conn := NewStdio(reader, &builder)
	defer conn.Close()

	actual, err := conn.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "first", actual)

	assert.NoError(t, conn.Send(ctx, "reply"))
	assert.Equal(t, "reply\n", builder.String())

	actual, err = conn.Receive(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "second", actual)

	// Reader EOF surfaces as end of stream.
	_, err = conn.Receive(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
