package filesystem

import "testing"

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{"Bytes", "100", 100, false},
		{"Kilobytes", "1K", 1024, false},
		{"Kilobytes lowercase", "1k", 1024, false},
		{"Megabytes", "1M", 1024 * 1024, false},
		{"Megabytes lowercase", "1m", 1024 * 1024, false},
		{"Gigabytes", "1G", 1024 * 1024 * 1024, false},
		{"Multiple KB", "64K", 64 * 1024, false},
		{"Whitespace", " 4M ", 4 * 1024 * 1024, false},
		{"Invalid format", "abc", 0, true},
		{"Unit only", "M", 0, true},
		{"Negative", "-1K", 0, true},
		{"Empty string", "", 0, true},
		{"Largest byte count", "9223372036854775807", 9223372036854775807, false},
		{"Overflows int64", "9999999999G", 0, true},
		{"Wraps to a valid size", "17179869185G", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
