package shrink

import (
	"errors"
	"testing"
)

func buildReport(factor Factor, succeeded, failed []string) Report {
	r := Report{Factor: factor}
	for _, name := range succeeded {
		r.add(Outcome{Name: name, Output: name + "_smaller"})
	}
	for _, name := range failed {
		r.add(Outcome{Name: name, Err: errors.New("failed")})
	}
	return r
}

func TestReport_String(t *testing.T) {
	tests := []struct {
		name      string
		factor    Factor
		succeeded []string
		failed    []string
		expected  string
	}{
		{
			name:      "single success",
			factor:    2,
			succeeded: []string{"photo.jpg"},
			expected:  "Successfully shrunk 1 file (by a factor of 2):\nphoto.jpg",
		},
		{
			name:      "several successes",
			factor:    4,
			succeeded: []string{"a.jpg", "b.png"},
			expected:  "Successfully shrunk 2 files (by a factor of 4):\na.jpg\nb.png",
		},
		{
			name:      "successes and one failure",
			factor:    8,
			succeeded: []string{"a.jpg", "b.png"},
			failed:    []string{"notes.txt"},
			expected:  "Successfully shrunk 2 files (by a factor of 8):\na.jpg\nb.png\n\nUnable to shrink 1 file:\nnotes.txt",
		},
		{
			name:      "one success and failures",
			factor:    16,
			succeeded: []string{"a.bmp"},
			failed:    []string{"anim.gif", "notes.txt"},
			expected:  "Successfully shrunk 1 file (by a factor of 16):\na.bmp\n\nUnable to shrink 2 files:\nanim.gif\nnotes.txt",
		},
		{
			name:      "fractional factor",
			factor:    1.5,
			succeeded: []string{"a.jpg"},
			expected:  "Successfully shrunk 1 file (by a factor of 1.5):\na.jpg",
		},
		{
			name:     "only failures",
			factor:   2,
			failed:   []string{"notes.txt", "anim.gif"},
			expected: NoImagesMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := buildReport(tt.factor, tt.succeeded, tt.failed)
			if got := r.String(); got != tt.expected {
				t.Errorf("Expected report:\n%q\ngot:\n%q", tt.expected, got)
			}
		})
	}
}

func TestReport_FailureText(t *testing.T) {
	if text := buildReport(2, []string{"a.jpg"}, nil).FailureText(); text != "" {
		t.Errorf("Expected empty failure text, got %q", text)
	}

	r := buildReport(2, nil, []string{"notes.txt"})
	if text := r.FailureText(); text != "\n\nUnable to shrink 1 file:\nnotes.txt" {
		t.Errorf("Unexpected failure text %q", text)
	}
}

func TestReport_Counters(t *testing.T) {
	r := buildReport(2, []string{"a.jpg", "b.png"}, []string{"c.txt"})

	if r.SuccessCount != 2 || r.FailCount != 1 {
		t.Errorf("Expected 2 successes and 1 failure, got %d and %d", r.SuccessCount, r.FailCount)
	}
	if len(r.Outputs) != 2 || r.Outputs[0] != "a.jpg_smaller" {
		t.Errorf("Expected outputs of successes only, got %v", r.Outputs)
	}
}

func TestFactor_Validate(t *testing.T) {
	tests := []struct {
		factor   Factor
		expected error
	}{
		{2, nil},
		{0.5, nil},
		{NoFactor, ErrNoFactor},
		{-4, ErrInvalidFactor},
	}

	for _, tt := range tests {
		err := tt.factor.Validate()
		if !errors.Is(err, tt.expected) {
			t.Errorf("Validate(%v) = %v, expected %v", tt.factor, err, tt.expected)
		}
	}
}

func TestParseOutputMode(t *testing.T) {
	for _, s := range []string{"source", "jpeg"} {
		if m, err := ParseOutputMode(s); err != nil || string(m) != s {
			t.Errorf("ParseOutputMode(%s) = %v, %v", s, m, err)
		}
	}
	if _, err := ParseOutputMode("gif"); err == nil {
		t.Error("Expected error for unknown output format")
	}
}
