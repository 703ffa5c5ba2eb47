package speakingtest

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Record is a single speaking-test question and its externally graded
// response and score. ID and CreatedAt are assigned by the backend.
type Record struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Response  string    `json:"response,omitempty"`
	Score     Score     `json:"score"`
	CreatedAt Timestamp `json:"created_at"`
}

// Score is an optional grade that the backend may encode as a number,
// a string or null.
type Score struct {
	value   string
	set     bool
	numeric bool // decoded from a JSON number
}

// NewScore returns a present score with the given textual value.
func NewScore(v string) Score {
	return Score{value: v, set: true}
}

// Present reports whether the backend supplied a score.
func (s Score) Present() bool {
	return s.set
}

func (s Score) String() string {
	return s.value
}

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Score{}
		return nil
	}

	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		if strings.TrimSpace(str) == "" {
			*s = Score{}
			return nil
		}
		*s = NewScore(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = Score{value: n.String(), set: true, numeric: true}
	return nil
}

func (s Score) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	if s.numeric {
		return []byte(s.value), nil
	}
	return json.Marshal(s.value)
}

// timestampLayouts are tried in order when decoding created_at.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Timestamp is the backend creation time. Raw keeps the original text so
// values in an unknown layout can still be displayed.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp decodes s using the known backend layouts. Unparsable
// input yields a Timestamp with a zero Time and Raw set.
func ParseTimestamp(s string) Timestamp {
	ts := Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			break
		}
	}
	return ts
}

// Valid reports whether the raw value was parsed.
func (t Timestamp) Valid() bool {
	return !t.Time.IsZero()
}

// Format renders the timestamp in local time, or the raw text when it
// could not be parsed.
func (t Timestamp) Format() string {
	if !t.Valid() {
		return t.Raw
	}
	return t.Time.Local().Format("Jan 2, 2006 3:04 PM")
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseTimestamp(s)
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Valid() && t.Raw == "" {
		return json.Marshal(t.Time.Format(time.RFC3339))
	}
	if t.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(t.Raw)
}
