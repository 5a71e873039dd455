package filter

import (
	"testing"

	"github.com/honzajavorek/karolakvido/internal/event"
)

func sampleEvents() []event.Event {
	return []event.Event{
		{Title: "Pirátský poklad – Praha", Location: "Divadlo Lucie Bílé, Praha 4", City: "Praha"},
		{Title: "Dobrodružství začíná", Location: "Kino Máj", City: "Litvínov"},
		{Title: "Jarní výlet do Brna", Location: "Neuvedeno", City: ""},
	}
}

func TestByRegion(t *testing.T) {
	tests := []struct {
		name       string
		region     string
		wantTitles []string
	}{
		{
			name:       "empty region keeps everything",
			region:     "",
			wantTitles: []string{"Pirátský poklad – Praha", "Dobrodružství začíná", "Jarní výlet do Brna"},
		},
		{
			name:       "matches city",
			region:     "Litvínov",
			wantTitles: []string{"Dobrodružství začíná"},
		},
		{
			name:       "matches location case-insensitively",
			region:     "praha 4",
			wantTitles: []string{"Pirátský poklad – Praha"},
		},
		{
			name:       "falls back to title when location is the sentinel",
			region:     "brna",
			wantTitles: []string{"Jarní výlet do Brna"},
		},
		{
			name:       "no match yields empty result",
			region:     "Ostrava",
			wantTitles: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ByRegion(sampleEvents(), tt.region)
			if len(got) != len(tt.wantTitles) {
				t.Fatalf("expected %d events, got %d", len(tt.wantTitles), len(got))
			}
			for i, title := range tt.wantTitles {
				if got[i].Title != title {
					t.Errorf("event %d: got %q, want %q", i, got[i].Title, title)
				}
			}
		})
	}
}
