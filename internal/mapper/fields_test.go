package mapper

import (
	"testing"

	"github.com/jhnmartin/join-gradient/internal/domain"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/launch-party", "launch-party"},
		{"launch-party", "launch-party"},
		{"/Launch Party!", "Launch-Party-"},
		{"/a/b.c", "a-b-c"},
		{"/under_score-ok", "under_score-ok"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMapEventFields(t *testing.T) {
	m := New(nil)

	src := &domain.SourceEvent{
		ID:           "42",
		Name:         "Launch Party",
		URL:          "/launch-party",
		Domain:       "https://example.com",
		StartDate:    "2025-06-10",
		StartTime:    "18:00:00",
		LocationName: "Main Hall",
		Pillar:       "Connect",
		ImageURL:     "//cdn.example.com/img.png",
		Status:       "live",
	}

	fields := m.MapEventFields(src)

	if fields.Name != "Launch Party" {
		t.Errorf("Name = %q", fields.Name)
	}
	if fields.Slug != "launch-party" {
		t.Errorf("Slug = %q, want launch-party", fields.Slug)
	}
	if fields.Pillar != "67ce5781f71b4b2d91c44df4" {
		t.Errorf("Pillar = %q, want the Connect option id", fields.Pillar)
	}
	if fields.RsvpLink != "https://example.com/launch-party" {
		t.Errorf("RsvpLink = %q", fields.RsvpLink)
	}
	if fields.StartDateTime != "2025-06-10T23:00:00.000Z" {
		t.Errorf("StartDateTime = %q", fields.StartDateTime)
	}
	// No end or close date: default duration from start
	if fields.EndDateTime != "2025-06-11T01:00:00.000Z" {
		t.Errorf("EndDateTime = %q", fields.EndDateTime)
	}
	if fields.Image != "https://cdn.example.com/img.png" {
		t.Errorf("Image = %q", fields.Image)
	}
	if fields.Swoogo != "42" {
		t.Errorf("Swoogo = %q, want 42", fields.Swoogo)
	}
	if fields.Location != "Main Hall" {
		t.Errorf("Location = %q", fields.Location)
	}
}

func TestMapEventFields_PillarLookup(t *testing.T) {
	m := New(nil)

	tests := []struct {
		label string
		want  string
	}{
		{"Connect", "67ce5781f71b4b2d91c44df4"},
		{"Scale", "67ce576fe8288f21bdeb494a"},
		{"Start", "67ce5760f155bc0716caaecd"},
		{"Unknown", ""},
		{"", ""},
	}

	for _, tt := range tests {
		fields := m.MapEventFields(&domain.SourceEvent{Name: "x", Pillar: tt.label})
		if fields.Pillar != tt.want {
			t.Errorf("pillar %q mapped to %q, want %q", tt.label, fields.Pillar, tt.want)
		}
	}
}

func TestMapEventFields_EndFallsBackToCloseDate(t *testing.T) {
	m := New(nil)

	src := &domain.SourceEvent{
		ID:        "7",
		Name:      "Workshop",
		StartDate: "2025-06-10",
		StartTime: "18:00:00",
		CloseDate: "2025-06-10",
		CloseTime: "20:30:00",
	}

	fields := m.MapEventFields(src)
	if fields.EndDateTime != "2025-06-11T01:30:00.000Z" {
		t.Errorf("EndDateTime = %q, want the close instant", fields.EndDateTime)
	}
}

func TestMapEventFields_ExplicitEndWins(t *testing.T) {
	m := New(nil)

	src := &domain.SourceEvent{
		ID:        "7",
		Name:      "Workshop",
		StartDate: "2025-06-10",
		StartTime: "18:00:00",
		EndDate:   "2025-06-10",
		EndTime:   "19:00:00",
		CloseDate: "2025-06-10",
		CloseTime: "22:00:00",
	}

	fields := m.MapEventFields(src)
	if fields.EndDateTime != "2025-06-11T00:00:00.000Z" {
		t.Errorf("EndDateTime = %q, want the explicit end instant", fields.EndDateTime)
	}
}

func TestMapEventFields_MissingStart(t *testing.T) {
	m := New(nil)

	fields := m.MapEventFields(&domain.SourceEvent{ID: "9", Name: "TBD"})
	if fields.StartDateTime != "" || fields.EndDateTime != "" {
		t.Errorf("expected empty date fields, got start=%q end=%q", fields.StartDateTime, fields.EndDateTime)
	}
}

func TestMapEventFields_Deterministic(t *testing.T) {
	m := New(nil)
	src := &domain.SourceEvent{
		ID:        "42",
		Name:      "Launch Party",
		URL:       "/launch-party",
		Domain:    "https://example.com",
		StartDate: "2025-06-10",
		StartTime: "18:00:00",
		Pillar:    "Scale",
	}

	first := m.MapEventFields(src)
	second := m.MapEventFields(src)
	if first != second {
		t.Errorf("mapping is not deterministic: %+v vs %+v", first, second)
	}
}
