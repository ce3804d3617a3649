package errors

import (
	"strings"
	"testing"
)

func TestValidateArms(t *testing.T) {
	tests := []struct {
		arms    int
		wantErr bool
	}{
		{-1, true},
		{0, true},
		{2, true},
		{3, false},
		{4, false},
		{12, false},
	}

	for _, tt := range tests {
		err := ValidateArms(tt.arms)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateArms(%d) error = %v, wantErr %v", tt.arms, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidArms) {
			t.Errorf("ValidateArms(%d) code = %v", tt.arms, GetCode(err))
		}
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		max     int
		wantErr bool
	}{
		{"default", 2000, 0, false},
		{"minimum", MinSize, 0, false},
		{"too small", 10, 0, true},
		{"zero", 0, 0, true},
		{"at limit", 4096, 4096, false},
		{"over limit", 4097, 4096, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize(tt.size, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%d, %d) error = %v, wantErr %v", tt.size, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateStarCount(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		max     int
		wantErr bool
	}{
		{"one", 1, 0, false},
		{"zero", 0, 0, true},
		{"negative", -5, 0, true},
		{"over limit", 60000, 50000, true},
		{"unbounded", 1 << 20, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStarCount(tt.n, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStarCount(%d, %d) error = %v, wantErr %v", tt.n, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	allowed := []string{"png", "zip", "json"}
	if err := ValidateFormat("zip", allowed); err != nil {
		t.Errorf("ValidateFormat(zip) = %v", err)
	}
	err := ValidateFormat("gif", allowed)
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("ValidateFormat(gif) = %v, want INVALID_FORMAT", err)
	}
	if !strings.Contains(UserMessage(err), "png, zip, json") {
		t.Errorf("message should list allowed formats: %q", UserMessage(err))
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "spiral", false},
		{"with dash", "my-galaxy", false},
		{"with underscore", "my_galaxy", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"traversal", "../etc", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRedisURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"redis://localhost:6379/0", false},
		{"rediss://user:pw@host:6380", false},
		{"", true},
		{"http://localhost:6379", true},
	}

	for _, tt := range tests {
		err := ValidateRedisURL(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateRedisURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
