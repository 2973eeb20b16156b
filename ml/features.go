package ml

import (
	"time"

	"delaycast/flights"
)

// departureLayout is the timestamp layout of the Fecha-I and Fecha-O
// dataset columns.
const departureLayout = "2006-01-02 15:04:05"

// delayThresholdMinutes separates an on-time departure from a delayed one.
// Exactly 15 minutes late is still on time.
const delayThresholdMinutes = 15.0

// Period classifies a departure time within the day.
type Period int

const (
	PeriodNone Period = iota
	PeriodMorning
	PeriodAfternoon
	PeriodNight
)

func (p Period) String() string {
	switch p {
	case PeriodMorning:
		return "morning"
	case PeriodAfternoon:
		return "afternoon"
	case PeriodNight:
		return "night"
	default:
		return "none"
	}
}

// FeatureCount is the width of every feature vector.
const FeatureCount = 10

// FeatureNames returns the model's feature contract in slot order. The
// subset was selected offline against the historical dataset and is fixed:
// inference never reshapes the feature space no matter which airlines or
// months appear in a batch.
func FeatureNames() []string {
	return []string{
		"OPERA_Latin American Wings",
		"MES_7",
		"MES_10",
		"OPERA_Grupo LATAM",
		"MES_12",
		"TIPOVUELO_I",
		"MES_4",
		"MES_11",
		"OPERA_Sky Airline",
		"OPERA_Copa Air",
	}
}

// Slot lookup tables for the contract above. A category without a slot
// contributes nothing; unseen categories are not an error.
var operaSlots = map[string]int{
	"Latin American Wings": 0,
	"Grupo LATAM":          3,
	"Sky Airline":          8,
	"Copa Air":             9,
}

var mesSlots = map[int]int{
	7:  1,
	10: 2,
	12: 4,
	4:  6,
	11: 7,
}

const tipoVueloISlot = 5

// FeatureVector maps one record onto the fixed 10-slot contract.
func FeatureVector(rec flights.Record) []float64 {
	v := make([]float64, FeatureCount)
	if slot, ok := operaSlots[rec.Opera]; ok {
		v[slot] = 1
	}
	if slot, ok := mesSlots[rec.Mes]; ok {
		v[slot] = 1
	}
	if rec.TipoVuelo == flights.FlightTypeInternational {
		v[tipoVueloISlot] = 1
	}
	return v
}

// PeriodOfDay classifies a departure timestamp into morning (05:00, 11:59),
// afternoon (12:00, 18:59) or night (19:00, 23:59) plus (00:00, 04:59).
// Every bound is exclusive, so an instant exactly on a bound belongs to no
// interval and PeriodNone is returned. The gap is inherited from the
// trained pipeline and kept as-is.
func PeriodOfDay(ts string) (Period, error) {
	t, err := time.Parse(departureLayout, ts)
	if err != nil {
		return PeriodNone, &FormatError{Field: "Fecha-I", Value: ts}
	}
	s := t.Hour()*3600 + t.Minute()*60 + t.Second()
	switch {
	case s > 5*3600 && s < 11*3600+59*60:
		return PeriodMorning, nil
	case s > 12*3600 && s < 18*3600+59*60:
		return PeriodAfternoon, nil
	case (s > 19*3600 && s < 23*3600+59*60) || (s > 0 && s < 4*3600+59*60):
		return PeriodNight, nil
	default:
		return PeriodNone, nil
	}
}

// HighSeason reports whether the departure date falls in one of the
// elevated-demand windows: Dec 15-31, Jan 1-Mar 3, Jul 15-31 or Sep 11-30,
// inclusive on both ends, evaluated against the date's own year.
func HighSeason(ts string) (bool, error) {
	t, err := time.Parse(departureLayout, ts)
	if err != nil {
		return false, &FormatError{Field: "Fecha-I", Value: ts}
	}
	md := int(t.Month())*100 + t.Day()
	switch {
	case md >= 1215 && md <= 1231:
		return true, nil
	case md >= 101 && md <= 303:
		return true, nil
	case md >= 715 && md <= 731:
		return true, nil
	case md >= 911 && md <= 930:
		return true, nil
	default:
		return false, nil
	}
}

// MinutesLate returns the actual departure minus the scheduled departure in
// minutes. Early departures are negative.
func MinutesLate(rec flights.Record) (float64, error) {
	if rec.ScheduledDeparture == "" {
		return 0, &MissingFieldError{Field: "Fecha-I"}
	}
	if rec.ActualDeparture == "" {
		return 0, &MissingFieldError{Field: "Fecha-O"}
	}
	scheduled, err := time.Parse(departureLayout, rec.ScheduledDeparture)
	if err != nil {
		return 0, &FormatError{Field: "Fecha-I", Value: rec.ScheduledDeparture}
	}
	actual, err := time.Parse(departureLayout, rec.ActualDeparture)
	if err != nil {
		return 0, &FormatError{Field: "Fecha-O", Value: rec.ActualDeparture}
	}
	return actual.Sub(scheduled).Minutes(), nil
}

// DelayLabel derives the binary training label: 1 if the flight departed
// strictly more than 15 minutes late, else 0.
func DelayLabel(rec flights.Record) (int, error) {
	minutes, err := MinutesLate(rec)
	if err != nil {
		return 0, err
	}
	if minutes > delayThresholdMinutes {
		return 1, nil
	}
	return 0, nil
}

// BuildFeatures turns records into fixed-width feature vectors, one per
// record in input order. With withLabels set it also derives the delay
// label per record, which requires both departure timestamps.
func BuildFeatures(records []flights.Record, withLabels bool) ([][]float64, []int, error) {
	features := make([][]float64, len(records))
	var labels []int
	if withLabels {
		labels = make([]int, len(records))
	}
	for i, rec := range records {
		features[i] = FeatureVector(rec)
		if withLabels {
			label, err := DelayLabel(rec)
			if err != nil {
				return nil, nil, err
			}
			labels[i] = label
		}
	}
	return features, labels, nil
}
