package credlock

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAuditDispatcher_DeliversInOrder(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)
	defer d.Close()

	for i := 0; i < 3; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess, UserID: string(rune('a' + i))})
	}

	for i := 0; i < 3; i++ {
		select {
		case ev := <-sink.Events():
			if ev.UserID != string(rune('a'+i)) {
				t.Fatalf("event %d out of order: %q", i, ev.UserID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestAuditDispatcher_DrainsOnClose(t *testing.T) {
	sink := NewChannelSink(16)
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 16}, sink)

	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLogoutSuccess})
	}
	d.Close()

	delivered := 0
	for {
		select {
		case <-sink.Events():
			delivered++
		default:
			if delivered != 5 {
				t.Fatalf("expected 5 events drained on close, got %d", delivered)
			}
			return
		}
	}
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(_ context.Context, _ AuditEvent) {
	<-s.release
}

func TestAuditDispatcher_DropAccounting(t *testing.T) {
	// A sink that never consumes: with DropIfFull the dispatcher must shed
	// events rather than block the caller.
	block := make(chan struct{})
	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, blockingSink{release: block})
	defer func() {
		close(block)
		d.Close()
	}()

	for i := 0; i < 10; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure})
	}

	if d.Dropped() == 0 {
		t.Fatal("expected dropped events with a full buffer")
	}
}

func TestAuditDispatcher_DisabledIsNil(t *testing.T) {
	d := newAuditDispatcher(AuditConfig{Enabled: false}, NoOpSink{})
	if d != nil {
		t.Fatal("expected nil dispatcher when auditing is disabled")
	}
	// nil receiver must be safe
	d.Emit(context.Background(), AuditEvent{})
	d.Close()
	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reported drops")
	}
}

func TestJSONWriterSink_OneObjectPerLine(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess, UserID: "u1", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: auditEventLoginFailure, Error: "invalid_credentials"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var ev AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &ev); err != nil {
		t.Fatalf("line 0 is not valid JSON: %v", err)
	}
	if ev.EventType != auditEventLoginSuccess || ev.UserID != "u1" || !ev.Success {
		t.Fatalf("unexpected decoded event: %+v", ev)
	}
}

func TestEngine_EmitsAuditEvents(t *testing.T) {
	sink := NewChannelSink(32)

	engine, _, _, _ := newTestEngine(t, func(cfg *Config) {
		cfg.Audit.Enabled = true
		cfg.Audit.BufferSize = 32
	})
	// Swap in an observable sink; newTestEngine builds without one.
	engine.audit.Close()
	engine.audit = newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 32}, sink)

	mustRegister(t, engine, "alice@example.com", "correct-horse")
	engine.Login(WithClientIP(context.Background(), "10.0.0.9"), "alice@example.com", "wrong-password")

	var got []AuditEvent
	deadline := time.After(time.Second)
	for len(got) < 2 {
		select {
		case ev := <-sink.Events():
			got = append(got, ev)
		case <-deadline:
			t.Fatalf("timed out, received %d events", len(got))
		}
	}

	if got[0].EventType != auditEventRegisterSuccess || !got[0].Success {
		t.Fatalf("unexpected first event: %+v", got[0])
	}
	if got[1].EventType != auditEventLoginFailure || got[1].Success {
		t.Fatalf("unexpected second event: %+v", got[1])
	}
	if got[1].Error != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials code, got %q", got[1].Error)
	}
	if got[1].IP != "10.0.0.9" {
		t.Fatalf("expected client IP propagated, got %q", got[1].IP)
	}
}
