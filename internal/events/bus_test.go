package events

import "testing"

func TestEmitOrder(t *testing.T) {
	b := NewBus(10)
	var seen []string
	b.Subscribe(func(e Event) { seen = append(seen, "first:"+e.Text) })
	b.Subscribe(func(e Event) { seen = append(seen, "second:"+e.Text) })

	b.Emit(Event{Type: Note, Text: "x"})
	b.Emit(Event{Type: Note, Text: "y"})

	want := []string{"first:x", "second:x", "first:y", "second:y"}
	if len(seen) != len(want) {
		t.Fatalf("got %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestNestedEmitKeepsOrderForEverySubscriber(t *testing.T) {
	b := NewBus(10)
	var late []string
	b.Subscribe(func(e Event) {
		if e.Type == PersonDied {
			b.Emit(Event{Type: RomanceMilestone, Text: "Mourning"})
		}
	})
	b.Subscribe(func(e Event) { late = append(late, e.Type.String()) })

	b.Emit(Event{Type: PersonDied})
	b.Emit(Event{Type: Note})

	want := []string{"PersonDied", "RomanceMilestone", "Note"}
	if len(late) != len(want) {
		t.Fatalf("got %v", late)
	}
	for i := range want {
		if late[i] != want[i] {
			t.Errorf("index %d: got %s, want %s", i, late[i], want[i])
		}
	}
	if got := b.Recent(0); got[0].Type != PersonDied || got[1].Type != RomanceMilestone {
		t.Errorf("buffer order %v", got)
	}
}

func TestBufferBounded(t *testing.T) {
	b := NewBus(3)
	for i := 1; i <= 5; i++ {
		b.Emit(Event{Tick: uint64(i)})
	}
	if b.Len() != 3 {
		t.Fatalf("len = %d", b.Len())
	}
	recent := b.Recent(0)
	if recent[0].Tick != 3 || recent[2].Tick != 5 {
		t.Errorf("unexpected buffer %v", recent)
	}
	if got := b.Recent(1); len(got) != 1 || got[0].Tick != 5 {
		t.Errorf("Recent(1) = %v", got)
	}
}

func TestEventString(t *testing.T) {
	e := Event{Tick: 4, Type: RomanceMilestone, A: 1000, B: 1001, Text: "Dating"}
	if got := e.String(); got != `4 RomanceMilestone a=1000 b=1001 "Dating"` {
		t.Errorf("String() = %s", got)
	}
}
