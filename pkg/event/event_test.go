package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFireReachesTypedAndWildcardListeners(t *testing.T) {
	b := NewBus()
	var got []string
	b.Listen("menu.created", func(e Event) { got = append(got, "typed:"+e.Type) })
	b.Listen(Wildcard, func(e Event) { got = append(got, "any:"+e.Type) })
	b.Listen("menu.deleted", func(Event) { t.Error("wrong listener called") })

	b.Fire("menu.created", map[string]string{"_id": "1"})

	assert.Equal(t, []string{"typed:menu.created", "any:menu.created"}, got)
}

func TestFireSurvivesPanickingListener(t *testing.T) {
	b := NewBus()
	called := false
	b.Listen("x", func(Event) { panic("boom") })
	b.Listen("x", func(Event) { called = true })

	assert.NotPanics(t, func() { b.Fire("x", nil) })
	assert.True(t, called)
}

func TestFireAsync(t *testing.T) {
	b := NewBus()
	var wg sync.WaitGroup
	wg.Add(2)
	b.Listen("review.created", func(Event) { wg.Done() })
	b.Listen(Wildcard, func(Event) { wg.Done() })

	b.FireAsync("review.created", nil)

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async listeners not called")
	}
}

func TestFlush(t *testing.T) {
	b := NewBus()
	b.Listen("x", func(Event) { t.Error("flushed listener called") })
	b.Flush()
	b.Fire("x", nil)
}
