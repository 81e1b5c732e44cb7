package domain

import "strings"

// Multiplier maps a damage exponent code to its numeric multiplier.
// Letters are case-insensitive. Unrecognized codes return 0: this is the
// defined decoding policy for the bulk file's undocumented stray values,
// not error masking — a bad code zeroes one damage figure instead of
// aborting the whole aggregation. The full table and its caveats are
// documented in the package comment.
func Multiplier(code string) float64 {
	code = strings.TrimSpace(code)

	switch strings.ToUpper(code) {
	case "H":
		return 100
	case "K":
		return 1_000
	case "M":
		return 1_000_000
	case "B":
		return 1_000_000_000
	case "0", "1", "2", "3", "4", "5", "6", "7", "8":
		// Uniformly 10 regardless of digit value, per the established
		// community decoding of the bulk file.
		return 10
	case "+":
		return 1
	}
	// "-", "?", the empty string, and anything unseen.
	return 0
}

// KnownExponent reports whether a code appears in the documented exponent
// table, including the codes that legitimately map to 0 ("-", "?", empty).
// Callers use it to count stray codes without changing their decoding.
func KnownExponent(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case "", "H", "K", "M", "B", "+", "-", "?",
		"0", "1", "2", "3", "4", "5", "6", "7", "8":
		return true
	}
	return false
}

// NormalizeDamage converts a raw (magnitude, exponent code) pair into a
// dollar amount. Pure and total: negative or zero magnitudes pass through
// the multiplication unvalidated.
func NormalizeDamage(magnitude float64, code string) float64 {
	return magnitude * Multiplier(code)
}

// EnrichEventRecord returns a copy of the record with the normalized
// property, crop, and total damage fields populated from the raw
// magnitude/exponent pairs.
func EnrichEventRecord(rec EventRecord) EventRecord {
	rec.PropertyDamage = NormalizeDamage(rec.PropDamageMag, rec.PropDamageExp)
	rec.CropDamage = NormalizeDamage(rec.CropDamageMag, rec.CropDamageExp)
	rec.TotalDamage = rec.PropertyDamage + rec.CropDamage
	return rec
}

// ParseRawRecord types a raw CSV record. Numeric fields parse leniently:
// malformed or empty values read as zero, consistent with the source's
// guarantee that harm fields are zero (not absent) when nothing occurred.
// The event-type label passes through byte-for-byte.
func ParseRawRecord(raw RawEventRecord) EventRecord {
	return EventRecord{
		EventType:     raw.EventType,
		Fatalities:    parseFloatOrZero(raw.Fatalities),
		Injuries:      parseFloatOrZero(raw.Injuries),
		PropDamageMag: parseFloatOrZero(raw.PropDamage),
		PropDamageExp: strings.TrimSpace(raw.PropDamageExp),
		CropDamageMag: parseFloatOrZero(raw.CropDamage),
		CropDamageExp: strings.TrimSpace(raw.CropDamageExp),
	}
}
