package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeGo(t *testing.T) {
	done := make(chan struct{})
	SafeGo("panics", func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	ran := make(chan bool, 1)
	SafeGo("ok", func() { ran <- true })
	assert.True(t, <-ran)
}
