package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	done   chan struct{}
	want   int
}

func (r *recordingRepo) InsertEvent(_ context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	if len(r.events) == r.want {
		close(r.done)
	}
	return nil
}

func TestDispatcher_PreservesPerSubjectOrder(t *testing.T) {
	repo := &recordingRepo{done: make(chan struct{}), want: 20}
	d := NewDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{Kind: domain.AuditShiftUpdated, Subject: "turno:1", Detail: string(rune('a' + i))})
		d.Record(domain.AuditEvent{Kind: domain.AuditRoomCreated, Subject: "sala:9", Detail: string(rune('a' + i))})
	}

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit events")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	var shift []string
	for _, e := range repo.events {
		if e.Subject == "turno:1" {
			shift = append(shift, e.Detail)
		}
	}
	for i, detail := range shift {
		if detail != string(rune('a'+i)) {
			t.Fatalf("events for turno:1 out of order: %v", shift)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("turno:7") != d.shardIndex("turno:7") {
		t.Fatal("shard index must be deterministic")
	}
}
