package validation

import (
	"reflect"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://example.com", true, ""},
		{"valid http", "http://example.com", true, ""},
		{"valid with path", "https://example.com/path/to/page", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"data scheme", "data:image/png;base64,AAAA", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestValidateDescription(t *testing.T) {
	if err := ValidateDescription("  "); err == nil || err.Field != "description" {
		t.Errorf("blank description error = %v, want description field error", err)
	}
	if err := ValidateDescription("주 3회 한강에서 달립니다"); err != nil {
		t.Errorf("ValidateDescription() error = %v", err)
	}
}

func TestNormalizeInstagram(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"@seoul_runners", "seoul_runners", false},
		{" seoul.run ", "seoul.run", false},
		{"", "", false},
		{"@", "", false},
		{"bad handle", "", true},
		{"한글", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeInstagram(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeInstagram(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeInstagram(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateAgeRange(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{"typical", 20, 39, false},
		{"equal bounds", 30, 30, false},
		{"full span", 0, 100, false},
		{"inverted", 45, 25, true},
		{"negative", -1, 30, true},
		{"over 100", 20, 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAgeRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAgeRange(%d, %d) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeActivityDays(t *testing.T) {
	got, err := NormalizeActivityDays([]string{"수요일", " 월요일", "수요일"})
	if err != nil {
		t.Fatalf("NormalizeActivityDays() error = %v", err)
	}
	if want := []string{"수요일", "월요일"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeActivityDays() = %v, want %v", got, want)
	}

	if _, err := NormalizeActivityDays([]string{"Monday"}); err == nil {
		t.Error("NormalizeActivityDays() accepted a non-Korean weekday label")
	}

	empty, err := NormalizeActivityDays([]string{})
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("NormalizeActivityDays(empty) = %v, %v; want empty non-nil slice", empty, err)
	}
}

func TestNormalizeActivityLocations(t *testing.T) {
	got, err := NormalizeActivityLocations([]string{" 여의도 한강공원 ", "올림픽공원"})
	if err != nil {
		t.Fatalf("NormalizeActivityLocations() error = %v", err)
	}
	if got[0] != "여의도 한강공원" {
		t.Errorf("location not trimmed: %q", got[0])
	}

	if _, err := NormalizeActivityLocations([]string{"ok", "  "}); err == nil {
		t.Error("blank location should be rejected")
	}
}
