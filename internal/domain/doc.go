// Package domain models NOAA Storm Events bulk data and its damage encoding.
//
// # Data Source
//
// Records come from the NOAA National Weather Service Storm Events bulk CSV
// (the NCDC "StormData" export, distributed as a single bzip2-compressed file
// covering 1950 to present). Each row is one observed severe-weather event.
// The ingestion adapter resolves the seven columns this service uses by
// header name: EVTYPE, FATALITIES, INJURIES, PROPDMG, PROPDMGEXP, CROPDMG,
// CROPDMGEXP.
//
// # Event Types
//
// EVTYPE is free text, not a closed enum. The bulk file contains close to a
// thousand distinct spellings, including near-duplicates such as "TSTM WIND"
// and "THUNDERSTORM WIND". This service deliberately does not merge or
// normalize them: labels pass through byte-for-byte so downstream charts
// match the source taxonomy. Cleaning the taxonomy is an upstream concern.
//
// # Damage Exponent Encoding
//
// Monetary damage is split across two columns per damage type: a magnitude
// (PROPDMG, CROPDMG) and an exponent code (PROPDMGEXP, CROPDMGEXP). The
// final dollar amount is magnitude * multiplier(code). Codes observed in the
// bulk file, with the multipliers this service applies:
//
//	H, h          → 100        (hundreds)
//	K, k          → 1,000      (thousands)
//	M, m          → 1,000,000  (millions)
//	B, b          → 1e9        (billions)
//	0–8           → 10         (uniformly, regardless of digit value)
//	+             → 1
//	-, ?, ""      → 0
//	anything else → 0
//
// The letter codes are documented by NWS; the digit and symbol handling
// follows the decoding convention established by community analyses of the
// bulk file, not an official agency specification. In particular the uniform
// digit→10 rule and the conflation of "unknown symbol" with "explicitly
// zero" are known simplifications, preserved here so output stays comparable
// with the established decoding. Unrecognized codes therefore zero the
// damage silently rather than failing the pipeline; the bulk file contains
// undocumented stray values and a single bad code must not abort a
// multi-decade aggregation. See [Multiplier].
//
// # Metrics
//
// Three harm metrics are aggregated per event type: fatalities, injuries,
// and total damage (property + crop, post-normalization). All accumulate in
// float64; cumulative national damage peaks around 1e11, well inside
// float64's exact-integer range.
package domain
