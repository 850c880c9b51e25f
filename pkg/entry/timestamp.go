package entry

import (
	"encoding/json"
	"fmt"
	"time"
)

// ParseTime parses an RFC 3339 timestamp, with or without fractional seconds.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Timestamp serialises as an ISO-8601 string.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var timestamp string
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	if timestamp == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	t.Time, err = ParseTime(timestamp)
	return err
}

func (t Timestamp) String() string {
	return FormatTime(t.Time)
}

// Short renders the timestamp for history listings, e.g. "14 Oct 09:30".
func (t Timestamp) Short() string {
	return t.Local().Format("02 Jan 15:04")
}

func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
