package intake

import "strings"

// Track groups businesses by how their delivery is bound.
type Track string

const (
	TrackA         Track = "A" // time-bound, standardized delivery
	TrackB         Track = "B" // decision-heavy, creative or expert work
	TrackC         Track = "C" // founder-led advisory
	TrackUniversal Track = "UNIVERSAL"
)

// Label returns the display name of the track.
func (t Track) Label() string {
	switch t {
	case TrackA:
		return "Time-Bound"
	case TrackC:
		return "Founder-Led"
	case TrackUniversal:
		return "Universal"
	default:
		return "Decision-Heavy"
	}
}

var (
	trackAKeywords = []string{"standardized", "logistics", "trades"}
	trackCKeywords = []string{"advisory", "coaching", "consulting"}
)

// ResolveTrack maps the business model (with its legacy fallbacks) to a
// track. Matching is case-insensitive substring over a small vocabulary;
// anything unrecognized, including no answer, is track B.
func ResolveTrack(r Response) Track {
	return TrackForModel(Normalize(r).Text("business_model"))
}

// TrackForModel resolves a raw business model string.
func TrackForModel(model string) Track {
	lower := strings.ToLower(strings.TrimSpace(model))
	if lower == "" {
		return TrackB
	}
	for _, kw := range trackAKeywords {
		if strings.Contains(lower, kw) {
			return TrackA
		}
	}
	for _, kw := range trackCKeywords {
		if strings.Contains(lower, kw) {
			return TrackC
		}
	}
	return TrackB
}
