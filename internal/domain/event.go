package domain

// RawEventRecord holds the seven Storm Events columns as they appear in the
// bulk CSV, untyped. The ingestion adapter produces one per row; ParseRawRecord
// converts it to a typed EventRecord exactly once, at the boundary.
type RawEventRecord struct {
	EventType     string `json:"EVTYPE"`
	Fatalities    string `json:"FATALITIES"`
	Injuries      string `json:"INJURIES"`
	PropDamage    string `json:"PROPDMG"`
	PropDamageExp string `json:"PROPDMGEXP"`
	CropDamage    string `json:"CROPDMG"`
	CropDamageExp string `json:"CROPDMGEXP"`
}

// EventRecord is the typed representation of one severe-weather event.
// Magnitude and exponent travel together; the normalized damage fields are
// zero until EnrichEventRecord populates them.
type EventRecord struct {
	EventType string `json:"event_type"`

	Fatalities float64 `json:"fatalities"`
	Injuries   float64 `json:"injuries"`

	PropDamageMag float64 `json:"prop_damage_mag"`
	PropDamageExp string  `json:"prop_damage_exp"`
	CropDamageMag float64 `json:"crop_damage_mag"`
	CropDamageExp string  `json:"crop_damage_exp"`

	// Derived by EnrichEventRecord.
	PropertyDamage float64 `json:"property_damage"`
	CropDamage     float64 `json:"crop_damage"`
	TotalDamage    float64 `json:"total_damage"`
}

// AggregateRow is one (event type, summed metric) pair produced by grouping.
// Rows are immutable once computed.
type AggregateRow struct {
	EventType string  `json:"event_type"`
	Total     float64 `json:"total"`
}

// Metric selects which harm measure an analysis sums per event type.
type Metric string

const (
	MetricFatalities  Metric = "fatalities"
	MetricInjuries    Metric = "injuries"
	MetricTotalDamage Metric = "total_damage"
)

// ValueFrom returns the record's value for this metric. Unknown metrics read
// as zero so a misconfigured analysis degrades to an empty ranking instead of
// a panic.
func (m Metric) ValueFrom(rec EventRecord) float64 {
	switch m {
	case MetricFatalities:
		return rec.Fatalities
	case MetricInjuries:
		return rec.Injuries
	case MetricTotalDamage:
		return rec.TotalDamage
	default:
		return 0
	}
}
