package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeatherGroup_KnownCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want string
	}{
		{"clear_sky", 0, GroupClear},
		{"mainly_clear", 1, GroupCloudy},
		{"overcast", 3, GroupCloudy},
		{"fog", 45, GroupFog},
		{"rime_fog", 48, GroupFog},
		{"light_drizzle", 51, GroupRain},
		{"rain", 61, GroupRain},
		{"freezing_rain", 67, GroupRain},
		{"rain_showers", 80, GroupRain},
		{"violent_showers", 82, GroupRain},
		{"snow", 71, GroupSnow},
		{"snow_grains", 77, GroupSnow},
		{"snow_showers", 85, GroupSnow},
		{"heavy_snow_showers", 86, GroupSnow},
		{"thunderstorm", 95, GroupThunder},
		{"thunderstorm_hail", 99, GroupThunder},
		{"unassigned_low", 4, GroupOther},
		{"unassigned_mid", 50, GroupOther},
		{"out_of_table", 200, GroupOther},
		{"negative", -1, GroupOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := tt.code
			assert.Equal(t, tt.want, WeatherGroup(&code))
		})
	}
}

func TestWeatherGroup_AbsentCode(t *testing.T) {
	assert.Equal(t, GroupUnknown, WeatherGroup(nil))
}

func TestWeatherGroup_TotalOverCodeRange(t *testing.T) {
	valid := map[string]struct{}{
		GroupClear: {}, GroupCloudy: {}, GroupFog: {}, GroupRain: {},
		GroupSnow: {}, GroupThunder: {}, GroupOther: {}, GroupUnknown: {},
	}
	for c := 0; c <= 99; c++ {
		code := c
		group := WeatherGroup(&code)
		_, ok := valid[group]
		assert.True(t, ok, "code %d mapped to unexpected group %q", c, group)
	}
}
