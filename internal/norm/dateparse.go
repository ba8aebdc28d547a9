package norm

import (
	"regexp"
	"strconv"
)

// Date is a parsed calendar date. No timezone or calendar normalization is
// applied: two dates are equal iff year, month, and day all match.
type Date struct {
	Year  int
	Month int
	Day   int
}

// Equal reports structural equality.
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

var (
	numericDateRe = regexp.MustCompile(`(\d{4})[.\-/]\s*(\d{1,2})[.\-/]\s*(\d{1,2})`)
	koreanDateRe  = regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
)

// ParseDate extracts (year, month, day) from an ISO-like form such as
// "2025-05-31" / "2025.5.31" or the Korean worded form "2025년 5월 31일".
// The second return is false when neither pattern matches.
func ParseDate(value string) (Date, bool) {
	for _, re := range []*regexp.Regexp{numericDateRe, koreanDateRe} {
		m := re.FindStringSubmatch(value)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return Date{Year: year, Month: month, Day: day}, true
	}
	return Date{}, false
}
