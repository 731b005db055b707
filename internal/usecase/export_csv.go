package usecase

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/user/roadwatch/internal/adapter/timestamp"
	"github.com/user/roadwatch/internal/domain"
)

const exportHeader = "Date,Filename,Prediction,Location"

// ExportArtifact is a downloadable CSV rendering of a filtered record set.
type ExportArtifact struct {
	Text     string `json:"text"`
	DataURI  string `json:"dataUri"`
	Filename string `json:"filename"`
}

// ExportCSV serializes the filtered set, in the order given, to CSV. Records
// without a prediction render the "No Prediction" placeholder; records
// without a location leave the field empty. The data URI embeds the
// percent-encoded text for use as a download link.
func ExportCSV(filtered []domain.ImageRecord, now time.Time) ExportArtifact {
	rows := make([]string, 0, len(filtered))
	for _, rec := range filtered {
		prediction := rec.PredictionLabel()
		if prediction == "" {
			prediction = "No Prediction"
		}
		rows = append(rows, fmt.Sprintf("%s,%q,%s,%s",
			timestamp.RecordISODate(rec.Filename), rec.Filename, prediction, rec.LocationString()))
	}

	text := exportHeader + "\n" + strings.Join(rows, "\n")
	return ExportArtifact{
		Text:     text,
		DataURI:  "data:text/csv;charset=utf-8," + percentEncode(text),
		Filename: "road-data-export-" + now.Format("2006-01-02") + ".csv",
	}
}

// percentEncode escapes text for embedding in a data URI. Spaces encode as
// %20, not "+".
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
