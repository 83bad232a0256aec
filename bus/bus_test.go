// bus/bus_test.go
package bus

import (
	"sort"
	"testing"
	"time"
)

const (
	TopicDS    = "ds"
	TopicError = "error"
)

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T(TopicDS, TopicError))

	conn.Publish(conn.NewMessage(T(TopicDS, TopicError), "hello", false))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "hello" {
			t.Errorf("expected payload 'hello', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T(TopicDS, TopicError), "persist", true))

	sub := conn.Subscribe(T(TopicDS, TopicError))

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "persist" {
			t.Errorf("expected retained payload 'persist', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for retained message")
	}
}

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(Topic{"a", "+", "c"})
	s2 := c.Subscribe(Topic{"a", "+", "+"})
	s3 := c.Subscribe(Topic{"a", "b", "+"})
	sNo := c.Subscribe(Topic{"a", "+", "d"})

	c.Publish(c.NewMessage(Topic{"a", "b", "c"}, "m1", false))

	expectOneOf(t, s1, "m1")
	expectOneOf(t, s2, "m1")
	expectOneOf(t, s3, "m1")
	expectNoMessage(t, sNo)

	c.Publish(c.NewMessage(Topic{"a", "x", "y"}, "m2", false))

	expectOneOf(t, s2, "m2")
	expectNoMessage(t, s1)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)

	c.Publish(c.NewMessage(Topic{"a", "c"}, "m3", false))
	expectNoMessage(t, s1)
	expectNoMessage(t, s2)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(32)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(Topic{"a", "b"}, "r1", true))
	c.Publish(c.NewMessage(Topic{"a", "x"}, "r3", true))
	c.Publish(c.NewMessage(Topic{"a", "b", "c"}, "r2", true))

	sPlus := c.Subscribe(Topic{"a", "+"})
	got := drainPayloads(t, sPlus, 2)
	assertUnorderedEqual(t, got, []string{"r1", "r3"})
}

func TestRetainedClear(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(Topic{"a", "b"}, "keep", true))
	c.Publish(c.NewMessage(Topic{"a", "y"}, "other", true))

	c.Publish(c.NewMessage(Topic{"a", "b"}, nil, true))

	s := c.Subscribe(Topic{"a", "+"})
	got := drainPayloads(t, s, 1)

	if len(got) != 1 || got[0] != "other" {
		t.Fatalf("expected only 'other' after clear, got %v", got)
	}
}

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(Topic{"q"})

	for _, p := range []string{"1", "2", "3"} {
		c.Publish(c.NewMessage(Topic{"q"}, p, false))
	}
	got := drainPayloads(t, s, 2)
	if got[0] != "2" || got[1] != "3" {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(Topic{"a"})
	s.Unsubscribe()
	s.Unsubscribe() // no-op

	if _, ok := <-s.Channel(); ok {
		t.Fatal("expected closed channel")
	}
	// Publishing after unsubscribe must not panic.
	c.Publish(c.NewMessage(Topic{"a"}, "x", false))
}

func TestDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(Topic{"a"})
	s2 := c.Subscribe(Topic{"b", "+"})
	c.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("subscription %v still open", s.Topic())
		}
	}
}

func TestTopicString(t *testing.T) {
	if got := T("ds", "error").String(); got != "ds/error" {
		t.Fatalf("String() = %q", got)
	}
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

func expectOneOf(t *testing.T, s *Subscription, want string) {
	t.Helper()
	select {
	case m := <-s.Channel():
		if m.Payload.(string) != want {
			t.Fatalf("got %v, want %q", m.Payload, want)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %q on %v", want, s.Topic())
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case m := <-s.Channel():
		t.Fatalf("unexpected message %v on %v", m.Payload, s.Topic())
	case <-time.After(10 * time.Millisecond):
	}
}

func drainPayloads(t *testing.T, s *Subscription, n int) []string {
	t.Helper()
	var out []string
	for len(out) < n {
		select {
		case m := <-s.Channel():
			out = append(out, m.Payload.(string))
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("timeout: got %d of %d messages: %v", len(out), n, out)
		}
	}
	return out
}

func assertUnorderedEqual(t *testing.T, got, want []string) {
	t.Helper()
	g := append([]string(nil), got...)
	w := append([]string(nil), want...)
	sort.Strings(g)
	sort.Strings(w)
	if len(g) != len(w) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range g {
		if g[i] != w[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
