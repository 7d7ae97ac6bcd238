package scoring

import "testing"

func TestMedal(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, MedalNotEligible},
		{999, MedalNotEligible},
		{1000, MedalBronze},
		{1300, MedalBronze},
		{2999, MedalBronze},
		{3000, MedalSilver},
		{4999, MedalSilver},
		{5000, MedalGold},
		{12000, MedalGold},
	}

	for _, tt := range tests {
		if got := Medal(tt.points); got != tt.want {
			t.Errorf("Medal(%d) = %q, want %q", tt.points, got, tt.want)
		}
	}
}

func TestEligible(t *testing.T) {
	if Eligible(999) {
		t.Error("999 points should not be eligible")
	}
	if !Eligible(1000) {
		t.Error("1000 points should be eligible")
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		category  string
		attribute string
		want      int
	}{
		{"co-curricular", "Organizer", 5},
		{"co-curricular", "Participant", 3},
		{"co-curricular", "Facilitator", 4},
		{"community", "International", 10},
		{"creative", "Creator", 6},
		{"combined", "Medium", 5},
		{"marshals", "Lead", 5},
		{"officers", "President", 7},
		{"councils", "Officer", 6},
		{"athletes", "Varsity", 7},
		{"athletes", "Bench", 0},   // unknown attribute
		{"robotics", "Captain", 0}, // unknown category
		{"", "", 0},
	}

	for _, tt := range tests {
		if got := Score(tt.category, tt.attribute); got != tt.want {
			t.Errorf("Score(%q, %q) = %d, want %d", tt.category, tt.attribute, got, tt.want)
		}
	}
}

func TestCeiling(t *testing.T) {
	tests := []struct {
		category string
		want     int
	}{
		{"community", 10},
		{"councils", 8},
		{"athletes", 7},
		{"unknown", 0},
	}

	for _, tt := range tests {
		if got := Ceiling(tt.category); got != tt.want {
			t.Errorf("Ceiling(%q) = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestCategories(t *testing.T) {
	cats := Categories()
	if len(cats) != 8 {
		t.Errorf("expected 8 categories, got %d", len(cats))
	}
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		seen[c] = true
	}
	for _, want := range []string{"co-curricular", "community", "creative", "combined", "marshals", "officers", "councils", "athletes"} {
		if !seen[want] {
			t.Errorf("missing category %q", want)
		}
	}
}
