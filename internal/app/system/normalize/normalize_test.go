package normalize

import "testing"

func TestUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"jdoe", "jdoe"},
		{"JDoe", "jdoe"},
		{"  JDoe  ", "jdoe"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Username(tt.input)
			if got != tt.want {
				t.Errorf("Username(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"John Doe", "John Doe"},
		{"  John Doe  ", "John Doe"},
		{"", ""},
		{"UPPERCASE NAME", "UPPERCASE NAME"}, // Name preserves case
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Name(tt.input)
			if got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"co-curricular", "co-curricular"},
		{"Co-Curricular", "co-curricular"},
		{"  ATHLETES ", "athletes"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Category(tt.input)
			if got != tt.want {
				t.Errorf("Category(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
