package elc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// requestDateLayout is the format the ELC service expects for dates.
const requestDateLayout = "01/02/2006"

// "/Date(1356998400000-0800)/" as emitted by WCF JSON serializers.
var wcfDatePattern = regexp.MustCompile(`^/Date\((-?\d+)([+-]\d{4})?\)/$`)

// Date is a calendar date as exchanged with the ELC service.
type Date struct {
	time.Time
}

// NewDate returns a Date for the calendar day of t.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

// ParseDate accepts WCF "/Date(ms±zzzz)/", RFC 3339, YYYY-MM-DD and
// M/D/YYYY forms.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if m := wcfDatePattern.FindStringSubmatch(s); m != nil {
		ms, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		t := time.UnixMilli(ms).UTC()
		if m[2] != "" {
			loc, err := offsetLocation(m[2])
			if err != nil {
				return time.Time{}, err
			}
			t = t.In(loc)
		}
		return t, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
}

func offsetLocation(offset string) (*time.Location, error) {
	hours, err := strconv.Atoi(offset[1:3])
	if err != nil {
		return nil, fmt.Errorf("invalid utc offset %q", offset)
	}
	minutes, err := strconv.Atoi(offset[3:5])
	if err != nil {
		return nil, fmt.Errorf("invalid utc offset %q", offset)
	}
	seconds := hours*3600 + minutes*60
	if offset[0] == '-' {
		seconds = -seconds
	}
	return time.FixedZone(offset, seconds), nil
}

// FormatDate renders t the way the ELC service expects in requests.
func FormatDate(t time.Time) string {
	return t.Format(requestDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(FormatDate(d.Time))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
