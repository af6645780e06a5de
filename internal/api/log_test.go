package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "BasicLine",
			raw:  `time=2026-08-26T10:30:00Z level=INFO msg="Dataset loaded" destinations=41`,
			want: "10:30:00 Dataset loaded (destinations=41)",
		},
		{
			name: "DropsLongValues",
			raw:  `time=2026-08-26T10:30:00Z level=INFO msg="Fetched" url=https://example.test/very/long/path/disembarkations_america.geojson`,
			want: "10:30:00 Fetched",
		},
		{
			name: "NoStructuredContent",
			raw:  "plain text line",
			want: "plain text line",
		},
		{
			name: "Empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLogLine(tt.raw); got != tt.want {
				t.Errorf("formatLogLine(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
