package report

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/deusflow/aibrief/internal/logger"
)

const displayLayout = "2006-01-02 15:04"

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05",
	"Mon, 2 Jan 2006 15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// MalformedDateError is returned when a publication date matches no known layout.
type MalformedDateError struct {
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed publication date %q", e.Value)
}

// FormatPubDate reformats an RFC 1123/2822 or RFC 3339 date as "2006-01-02 15:04",
// keeping the original zone.
func FormatPubDate(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &MalformedDateError{Value: raw}
	}

	if t, err := mail.ParseDate(value); err == nil {
		return t.Format(displayLayout), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(displayLayout), nil
		}
	}
	return "", &MalformedDateError{Value: raw}
}

// DisplayDate formats raw for display and falls back to raw when it cannot be parsed.
func DisplayDate(raw string) string {
	formatted, err := FormatPubDate(raw)
	if err != nil {
		logger.Debug("keeping raw publication date", "error", err)
		return raw
	}
	return formatted
}
