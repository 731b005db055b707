package domain

import "errors"

// UnknownTimestamp is the display sentinel for a record whose filename could
// not be decoded into a capture time.
const UnknownTimestamp = "Unknown"

var (
	// ErrInvalidTimestamp is returned when a filename stem is not a numeric
	// epoch timestamp. Decoding still yields the sentinel value so a single
	// bad record never aborts a batch computation.
	ErrInvalidTimestamp = errors.New("filename does not encode a numeric timestamp")

	// ErrFetchFailed wraps errors from the upstream record listing. The
	// caller keeps its last valid snapshot when this is returned.
	ErrFetchFailed = errors.New("failed to fetch image listing")
)

// ImageMetadata carries the optional device-embedded annotations of a record.
type ImageMetadata struct {
	Prediction string `json:"Prediction,omitempty"`
	Location   string `json:"Location,omitempty"`
}

// ImageRecord is one captured road image. The capture time is encoded in the
// filename as epoch seconds; metadata is whatever the field device embedded.
// Records are immutable once fetched.
type ImageRecord struct {
	Filename string         `json:"filename"`
	Metadata *ImageMetadata `json:"metadata,omitempty"`
}

// PredictionLabel returns the raw prediction label, or "" when absent.
func (r ImageRecord) PredictionLabel() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.Prediction
}

// LocationString returns the raw "(lat, lng)" string, or "" when absent.
func (r ImageRecord) LocationString() string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata.Location
}

// HasLocation reports whether the record carries a non-empty GPS string.
func (r ImageRecord) HasLocation() bool {
	return r.LocationString() != ""
}

// ImageListing is the wire shape of the record listing endpoint.
type ImageListing struct {
	Images []ImageRecord `json:"images"`
}
