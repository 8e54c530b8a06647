package capability

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not installed", name)
	}
}

func TestListener_Unsupported(t *testing.T) {
	_, err := NewListener("").Listen(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = NewListener("definitely-not-a-real-binary-xyz").Listen(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestListener_Transcript(t *testing.T) {
	requireCommand(t, "echo")

	text, err := NewListener("echo call mom tomorrow").Listen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "call mom tomorrow", text)
}

func TestListener_OneSessionAtATime(t *testing.T) {
	requireCommand(t, "sleep")

	l := NewListener("sleep 5")
	done := make(chan error, 1)
	go func() {
		_, err := l.Listen(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return l.cancel != nil
	}, time.Second, 10*time.Millisecond)

	_, err := l.Listen(context.Background())
	assert.ErrorIs(t, err, ErrListening)

	l.Stop()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(3 * time.Second):
		t.Fatal("listen did not stop")
	}
}

func TestSpeaker_Argv(t *testing.T) {
	s := &CommandSpeaker{args: []string{"espeak", "-s", "{wpm}"}}

	assert.Equal(t, []string{"-s", "210", "hello"}, s.argv("hello", 1.2))
	assert.Equal(t, []string{"-s", "175", "hello"}, s.argv("hello", 0))
}

func TestNewSpeaker_MissingBinary(t *testing.T) {
	_, err := NewSpeaker("definitely-not-a-real-binary-xyz")
	assert.ErrorIs(t, err, ErrUnsupported)
}
