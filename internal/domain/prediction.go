package domain

import "strings"

// Prediction is a canonical road-condition label. The set of labels a
// deployment recognizes is closed and lives in a Vocabulary; raw strings from
// metadata are mapped through it instead of being compared ad hoc.
type Prediction string

const (
	PredictionAsphaltBad  Prediction = "Asphalt bad"
	PredictionGoodRoad    Prediction = "Good road"
	PredictionPavedBad    Prediction = "Paved bad"
	PredictionPavedGood   Prediction = "Paved good"
	PredictionRain        Prediction = "Rain"
	PredictionUnpavedBad  Prediction = "Unpaved bad"
	PredictionUnpavedGood Prediction = "Unpaved good"
)

// exifCodeLabels maps the numeric class codes embedded by field devices in
// EXIF descriptions to canonical labels.
var exifCodeLabels = map[int]Prediction{
	0: PredictionAsphaltBad,
	1: PredictionGoodRoad,
	2: PredictionPavedBad,
	3: PredictionPavedGood,
	4: PredictionRain,
	5: PredictionUnpavedBad,
	6: PredictionUnpavedGood,
}

// PredictionFromCode resolves a device class code to its canonical label.
func PredictionFromCode(code int) (Prediction, bool) {
	p, ok := exifCodeLabels[code]
	return p, ok
}

// Vocabulary is the closed, ordered label set of one deployment plus a
// case-insensitive index for resolving raw metadata strings. Labels outside
// the vocabulary count toward totals but never toward a category.
type Vocabulary struct {
	labels []Prediction
	index  map[string]Prediction
}

// NewVocabulary builds a vocabulary from an ordered label list. Order matters:
// category counters and chart series follow it.
func NewVocabulary(labels ...Prediction) *Vocabulary {
	v := &Vocabulary{
		labels: make([]Prediction, 0, len(labels)),
		index:  make(map[string]Prediction, len(labels)),
	}
	for _, l := range labels {
		if _, dup := v.index[strings.ToLower(string(l))]; dup {
			continue
		}
		v.labels = append(v.labels, l)
		v.index[strings.ToLower(string(l))] = l
	}
	return v
}

// DefaultVocabulary is the dashboard deployment's label set.
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary(
		PredictionAsphaltBad,
		PredictionPavedBad,
		PredictionUnpavedBad,
		PredictionRain,
	)
}

// ParseVocabulary builds a vocabulary from a comma-separated label list, as
// configured per deployment. An empty input yields the default set.
func ParseVocabulary(raw string) *Vocabulary {
	if strings.TrimSpace(raw) == "" {
		return DefaultVocabulary()
	}
	var labels []Prediction
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			labels = append(labels, Prediction(part))
		}
	}
	if len(labels) == 0 {
		return DefaultVocabulary()
	}
	return NewVocabulary(labels...)
}

// Labels returns a copy of the ordered label set.
func (v *Vocabulary) Labels() []Prediction {
	out := make([]Prediction, len(v.labels))
	copy(out, v.labels)
	return out
}

// Canonical resolves a raw label to its canonical form. The lookup is
// case-insensitive; ok is false for empty or unrecognized labels.
func (v *Vocabulary) Canonical(raw string) (Prediction, bool) {
	if raw == "" {
		return "", false
	}
	p, ok := v.index[strings.ToLower(raw)]
	return p, ok
}
