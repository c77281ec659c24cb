package models

import (
	"errors"
	"testing"
	"time"
)

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority Priority
		want     int
	}{
		{PriorityHigh, 1},
		{PriorityMedium, 2},
		{PriorityLow, 3},
		{"Urgent", UnknownPriorityRank},
		{"", UnknownPriorityRank},
		{"high", UnknownPriorityRank},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.Rank(); got != tt.want {
				t.Errorf("Rank(%q) = %d, want %d", tt.priority, got, tt.want)
			}
		})
	}
}

func TestUnknownPriorityRanksAfterLow(t *testing.T) {
	if Priority("Someday").Rank() <= PriorityLow.Rank() {
		t.Fatalf("unknown priority must rank after %q", PriorityLow)
	}
}

func TestDefaultFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f := DefaultFields(now)

	if f.Status != StatusTodo {
		t.Errorf("expected status %q, got %q", StatusTodo, f.Status)
	}
	if f.Priority != PriorityMedium {
		t.Errorf("expected priority %q, got %q", PriorityMedium, f.Priority)
	}
	if !f.Date.Equal(now) {
		t.Errorf("expected date %v, got %v", now, f.Date)
	}
	if f.Title != "" || f.Description != "" {
		t.Errorf("expected empty title and description, got %q / %q", f.Title, f.Description)
	}
}

func TestFieldsValidate(t *testing.T) {
	valid := Fields{
		Title:    "Write report",
		Status:   StatusInProgress,
		Priority: PriorityHigh,
		Date:     time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		mutate    func(f *Fields)
		wantField string
	}{
		{name: "valid draft passes", mutate: func(f *Fields) {}},
		{name: "empty title fails", mutate: func(f *Fields) { f.Title = "" }, wantField: "title"},
		{name: "whitespace title fails", mutate: func(f *Fields) { f.Title = "  \t" }, wantField: "title"},
		{name: "zero date fails", mutate: func(f *Fields) { f.Date = time.Time{} }, wantField: "date"},
		{name: "title checked before date", mutate: func(f *Fields) { f.Title = ""; f.Date = time.Time{} }, wantField: "title"},
		{name: "unknown status fails", mutate: func(f *Fields) { f.Status = "BLOCKED" }, wantField: "status"},
		{name: "unknown priority fails", mutate: func(f *Fields) { f.Priority = "Urgent" }, wantField: "priority"},
		{name: "empty description is fine", mutate: func(f *Fields) { f.Description = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			err := f.Validate()

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestWithStatusLeavesOriginal(t *testing.T) {
	f := Fields{Title: "a", Status: StatusTodo}
	moved := f.WithStatus(StatusCompleted)

	if moved.Status != StatusCompleted {
		t.Errorf("expected moved status %q, got %q", StatusCompleted, moved.Status)
	}
	if f.Status != StatusTodo {
		t.Errorf("original status changed to %q", f.Status)
	}
	if moved.Title != f.Title {
		t.Errorf("expected title to carry over")
	}
}
