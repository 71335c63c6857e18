package core

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type crashCapture struct {
	mu   sync.Mutex
	out  bytes.Buffer
	code int
	done chan struct{}
}

func captureCrash(t *testing.T) *crashCapture {
	t.Helper()
	c := &crashCapture{code: -1, done: make(chan struct{})}

	prevOut, prevExit := crashOutput, crashExit
	crashOutput = &c.out
	crashExit = func(code int) {
		c.mu.Lock()
		c.code = code
		c.mu.Unlock()
		close(c.done)
	}
	t.Cleanup(func() {
		crashOutput, crashExit = prevOut, prevExit
		SetCrashFinalizer(nil)
	})
	return c
}

func TestHandleCrash_Nil(t *testing.T) {
	c := captureCrash(t)
	HandleCrash(nil)
	assert.Empty(t, c.out.String())
	assert.Equal(t, -1, c.code)
}

func TestHandleCrash_RunsFinalizerOnce(t *testing.T) {
	c := captureCrash(t)
	calls := 0
	SetCrashFinalizer(func() { calls++ })

	HandleCrash("boom")

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.code)
	assert.Contains(t, c.out.String(), "CRASH DETECTED: boom")
	assert.Contains(t, c.out.String(), "Stack Trace:")

	crashFinalizeSnapshot := func() func() {
		crashMu.Lock()
		defer crashMu.Unlock()
		return crashFinalize
	}
	assert.Nil(t, crashFinalizeSnapshot())
}

func TestGo_RecoversPanic(t *testing.T) {
	c := captureCrash(t)

	Go(func() { panic("worker failed") })

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "crash handler not invoked")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Equal(t, 1, c.code)
	assert.Contains(t, c.out.String(), "worker failed")
}
