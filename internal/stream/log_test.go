package stream

import (
	"sync"
	"testing"

	"github.com/ashureev/superset/internal/protocol"
)

func TestInterpreterPreservesOrderAndFallback(t *testing.T) {
	log := NewLog()
	var seen []protocol.Kind
	interp := NewInterpreter(log, func(_ []byte, ev protocol.Event) {
		seen = append(seen, ev.Kind())
	})

	interp.Interpret([]byte(`{"type":"AGENT_RESPONSE"}`))
	interp.Interpret([]byte(`garbage`))
	interp.Interpret([]byte(`{"type":"ERROR","message":"x"}`))

	events := log.Snapshot()
	want := []protocol.Kind{protocol.KindAgentResponse, protocol.KindText, protocol.KindError}
	if len(events) != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), len(events))
	}
	for i, k := range want {
		if events[i].Kind() != k {
			t.Errorf("event %d: expected %s, got %s", i, k, events[i].Kind())
		}
		if seen[i] != k {
			t.Errorf("callback %d: expected %s, got %s", i, k, seen[i])
		}
	}
	if text := events[1].(protocol.TextEvent); text.Raw != "garbage" {
		t.Errorf("Expected raw frame preserved, got %q", text.Raw)
	}
}

func TestSnapshotIsStableAcrossAppends(t *testing.T) {
	log := NewLog()
	log.Append(protocol.TextEvent{Raw: "a"})
	snap := log.Snapshot()

	for i := 0; i < 64; i++ {
		log.Append(protocol.TextEvent{Raw: "b"})
	}

	if len(snap) != 1 {
		t.Fatalf("Expected snapshot length 1, got %d", len(snap))
	}
	if cap(snap) != 1 {
		t.Errorf("Expected snapshot capacity capped at 1, got %d", cap(snap))
	}
	if snap[0].(protocol.TextEvent).Raw != "a" {
		t.Errorf("Snapshot was mutated: %+v", snap[0])
	}
	if log.Len() != 65 {
		t.Errorf("Expected 65 events, got %d", log.Len())
	}
}

func TestLogConcurrentReaders(t *testing.T) {
	log := NewLog()
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			log.Append(protocol.TextEvent{Raw: "x"})
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := log.Snapshot()
			for _, ev := range snap {
				if ev == nil {
					t.Error("Observed torn snapshot")
					return
				}
			}
		}
	}()

	wg.Wait()
	if log.Len() != 1000 {
		t.Errorf("Expected 1000 events, got %d", log.Len())
	}
}
