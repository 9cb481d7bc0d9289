package aggregate

// Weather group labels derived from the WMO weather interpretation codes
// reported by the weather provider.
const (
	GroupClear   = "clear"
	GroupCloudy  = "cloudy"
	GroupFog     = "fog"
	GroupRain    = "rain"
	GroupSnow    = "snow"
	GroupThunder = "thunder"
	GroupOther   = "other"
	GroupUnknown = "unknown"
)

// WeatherGroup classifies a WMO weather code into a coarse display bucket.
// The function is total: an absent code maps to "unknown" and any code
// outside the known table maps to "other", never an error.
func WeatherGroup(code *int) string {
	if code == nil {
		return GroupUnknown
	}
	c := *code
	switch {
	case c == 0:
		return GroupClear
	case c >= 1 && c <= 3:
		return GroupCloudy
	case c == 45 || c == 48:
		return GroupFog
	case (c >= 51 && c <= 67) || (c >= 80 && c <= 82):
		return GroupRain
	case (c >= 71 && c <= 77) || (c >= 85 && c <= 86):
		return GroupSnow
	case c >= 95 && c <= 99:
		return GroupThunder
	default:
		return GroupOther
	}
}
