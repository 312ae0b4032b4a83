package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type journalStub struct {
	query   DiagnosticQuery
	entries []DiagnosticEntry
	cutoff  time.Time
	removed int64
	err     error
}

func (j *journalStub) ListEntries(ctx context.Context, query DiagnosticQuery) ([]DiagnosticEntry, error) {
	j.query = query
	if j.err != nil {
		return nil, j.err
	}
	return j.entries, nil
}

func (j *journalStub) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	j.cutoff = cutoff
	if j.err != nil {
		return 0, j.err
	}
	return j.removed, nil
}

func TestDiagnosticsService_ListDiagnostics(t *testing.T) {
	ctx := context.Background()

	t.Run("without journal", func(t *testing.T) {
		svc := NewDiagnosticsService(nil, nil, nil)
		if _, err := svc.ListDiagnostics(ctx, DiagnosticQuery{}); !errors.Is(err, ErrJournalUnavailable) {
			t.Fatalf("expected ErrJournalUnavailable, got %v", err)
		}
	})

	t.Run("normalises and caps the query", func(t *testing.T) {
		journal := &journalStub{}
		svc := NewDiagnosticsService(journal, nil, nil)
		entries, err := svc.ListDiagnostics(ctx, DiagnosticQuery{Screen: " BookingScreen ", Level: "WARN", Limit: 10000})
		if err != nil {
			t.Fatalf("ListDiagnostics returned error: %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", entries)
		}
		if journal.query.Screen != "BookingScreen" || journal.query.Level != "warn" || journal.query.Limit != maxDiagnosticsLimit {
			t.Fatalf("unexpected query forwarded: %+v", journal.query)
		}
	})

	t.Run("rejects bad filters", func(t *testing.T) {
		svc := NewDiagnosticsService(&journalStub{}, nil, nil)
		_, err := svc.ListDiagnostics(ctx, DiagnosticQuery{Level: "fatal", Limit: -1})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(vErr.FieldErrors) != 2 {
			t.Fatalf("expected level and limit errors, got %v", vErr.FieldErrors)
		}
	})

	t.Run("wraps journal failures", func(t *testing.T) {
		boom := errors.New("locked")
		svc := NewDiagnosticsService(&journalStub{err: boom}, nil, nil)
		if _, err := svc.ListDiagnostics(ctx, DiagnosticQuery{}); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestDiagnosticsService_Prune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC)
	journal := &journalStub{removed: 4}
	svc := NewDiagnosticsService(journal, func() time.Time { return now }, nil)

	removed, err := svc.Prune(ctx, 168*time.Hour)
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if removed != 4 {
		t.Fatalf("expected 4 removed, got %d", removed)
	}
	if want := now.Add(-168 * time.Hour); !journal.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, journal.cutoff)
	}

	journal.cutoff = time.Time{}
	if removed, err := svc.Prune(ctx, 0); err != nil || removed != 0 || !journal.cutoff.IsZero() {
		t.Fatalf("zero retention should keep everything, got %d, %v", removed, err)
	}
}
