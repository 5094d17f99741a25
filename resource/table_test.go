package resource

import "testing"

type fakeBuffer struct {
	dropped bool
}

func (b *fakeBuffer) Drop() { b.dropped = true }

type recordingObserver struct {
	events []Event
}

func (o *recordingObserver) OnResourceEvent(e Event) {
	o.events = append(o.events, e)
}

func TestInsertGetRemove(t *testing.T) {
	tab := NewTable()
	buf := &fakeBuffer{}

	h := tab.Insert(TypeBuffer, buf)
	if h == 0 {
		t.Fatal("insert returned the reserved handle")
	}

	v, ok := tab.Get(h)
	if !ok || v != buf {
		t.Fatal("lookup failed")
	}

	if _, ok := tab.GetTyped(h, TypeStream); ok {
		t.Error("typed lookup with wrong type id succeeded")
	}
	if _, ok := tab.GetTyped(h, TypeBuffer); !ok {
		t.Error("typed lookup with right type id failed")
	}

	v, ok = tab.Remove(h)
	if !ok || v != buf {
		t.Fatal("remove failed")
	}
	if !buf.dropped {
		t.Error("Dropper not run on remove")
	}
	if _, ok := tab.Get(h); ok {
		t.Error("handle still live after remove")
	}
}

func TestCountByType(t *testing.T) {
	tab := NewTable()
	tab.Insert(TypeStream, "s0")
	tab.Insert(TypeStream, "s1")
	tab.Insert(TypeContext, "c0")

	if n := tab.CountByType(TypeStream); n != 2 {
		t.Errorf("streams: got %d, want 2", n)
	}
	if n := tab.Len(); n != 3 {
		t.Errorf("len: got %d, want 3", n)
	}
}

func TestObserverEvents(t *testing.T) {
	tab := NewTable()
	obs := &recordingObserver{}
	tab.Subscribe(obs)

	h := tab.Insert(TypeContext, "ctx")
	tab.Remove(h)

	if len(obs.events) != 2 {
		t.Fatalf("events: got %d, want 2", len(obs.events))
	}
	if obs.events[0].Type != EventCreated || obs.events[1].Type != EventDropped {
		t.Errorf("event order: %v, %v", obs.events[0].Type, obs.events[1].Type)
	}

	tab.Unsubscribe(obs)
	tab.Insert(TypeContext, "ctx2")
	if len(obs.events) != 2 {
		t.Error("observer notified after unsubscribe")
	}
}

func TestCloseDropsEverything(t *testing.T) {
	tab := NewTable()
	a, b := &fakeBuffer{}, &fakeBuffer{}
	tab.Insert(TypeBuffer, a)
	tab.Insert(TypeBuffer, b)

	if err := tab.Close(); err != nil {
		t.Fatal(err)
	}
	if !a.dropped || !b.dropped {
		t.Error("droppers not run on close")
	}
	if tab.Len() != 0 {
		t.Errorf("len after close: %d", tab.Len())
	}
	if h := tab.Insert(TypeBuffer, &fakeBuffer{}); h != 0 {
		t.Error("insert accepted after close")
	}
}
