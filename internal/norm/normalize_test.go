package norm

import "testing"

func TestNormalize_Date(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso dashes", "2025-05-31", "20250531"},
		{"dots", "2025.05.31", "20250531"},
		{"slashes", "2025/5/31", "2025531"},
		{"korean worded", "2025년 5월 31일", "2025531"},
		{"korean no spaces", "2025년5월31일", "2025531"},
		{"internal whitespace", " 2025 . 05 . 31 ", "20250531"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input, KindDate); got != tc.want {
				t.Errorf("Normalize(%q, date) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalize_Text(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"whitespace and punctuation", "서울 특별시, 강남구.", "서울특별시강남구"},
		{"lowercases", "Seoul City Hall", "seoulcityhall"},
		{"date markers stripped", "3월 목표", "3목표"},
		{"hyphen stripped", "123-456", "123456"},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input, KindText); got != tc.want {
				t.Errorf("Normalize(%q, text) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalize_Numeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"money", "450,000원", "450000"},
		{"account", "123-456-789012", "123456789012"},
		{"no digits", "납부하세요", ""},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input, KindNumeric); got != tc.want {
				t.Errorf("Normalize(%q, numeric) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
