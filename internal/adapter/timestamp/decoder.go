package timestamp

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/user/roadwatch/internal/domain"
)

// Field devices name captures by their epoch timestamp, e.g.
// "1746581400.jpg". Only image extensions are stripped; any other suffix
// makes the stem non-numeric and decoding fails.
var imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png)$`)

// displayLayout renders capture times the way the presentation layer shows
// them: time first, then day/month/year.
const displayLayout = "15:04:05 02/01/2006"

// Decoded is a capture time derived from a filename. It is never stored, only
// recomputed. Display holds the sentinel when decoding failed.
type Decoded struct {
	Time    time.Time
	Display string
}

// Decode parses a record filename into its capture time. Non-numeric stems
// return domain.ErrInvalidTimestamp along with a sentinel Decoded value, so
// callers that don't care can keep going.
func Decode(filename string) (Decoded, error) {
	stem := imageExtPattern.ReplaceAllString(filename, "")
	secs, err := strconv.ParseFloat(stem, 64)
	if err != nil {
		return Decoded{Display: domain.UnknownTimestamp},
			fmt.Errorf("%w: %q", domain.ErrInvalidTimestamp, filename)
	}

	sec := int64(secs)
	nsec := int64((secs - float64(sec)) * float64(time.Second))
	t := time.Unix(sec, nsec)
	return Decoded{Time: t, Display: t.Format(displayLayout)}, nil
}

// ISODate extracts the YYYY-MM-DD grouping key from a display string. The
// sentinel and malformed strings yield "", which the date-range filter treats
// as "no constraint".
func ISODate(display string) string {
	if display == "" || display == domain.UnknownTimestamp {
		return ""
	}
	parts := strings.Split(display, " ")
	if len(parts) < 2 {
		return ""
	}
	dmy := strings.Split(parts[1], "/")
	if len(dmy) != 3 {
		return ""
	}
	return dmy[2] + "-" + dmy[1] + "-" + dmy[0]
}

// RecordISODate decodes a filename straight to its ISO grouping date,
// returning "" for undecodable timestamps.
func RecordISODate(filename string) string {
	d, _ := Decode(filename)
	return ISODate(d.Display)
}
