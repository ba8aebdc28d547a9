package norm

import (
	"math"
	"testing"
)

func TestSimilarity_Identity(t *testing.T) {
	if got := Similarity("행정동", "행정동"); got != 1.0 {
		t.Errorf("Similarity(행정동, 행정동) = %v, want 1.0", got)
	}
	if got := Similarity("", ""); got != 1.0 {
		t.Errorf("Similarity(\"\", \"\") = %v, want 1.0", got)
	}
}

func TestSimilarity_Known(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"one substitution over three runes", "행정동", "행정부", 1.0 - 1.0/3.0},
		{"empty vs nonempty", "", "abc", 0.0},
		{"completely different", "abc", "xyz", 0.0},
		{"one insertion", "2025531", "20250531", 1.0 - 1.0/8.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Similarity(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestSimilarity_Commutative(t *testing.T) {
	pairs := [][2]string{
		{"서울특별시", "서을특별시"},
		{"2025.05.31", "2025년 5월 31일"},
		{"abc", ""},
		{"과태료", "과태료납부"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q,%q)=%v but reversed=%v", p[0], p[1], ab, ba)
		}
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"가나다라", "마바사"},
		{"x", "y"},
		{"납부기한", "납부 기한 안내문"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q,%q)=%v out of [0,1]", p[0], p[1], got)
		}
	}
}
