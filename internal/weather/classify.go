package weather

// Condition is the display category of a WMO weather code.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionCloudy       Condition = "cloudy"
	ConditionRain         Condition = "rain"
	ConditionThunderstorm Condition = "thunderstorm"
)

var conditionByCode = map[int]Condition{
	0:  ConditionClear,
	1:  ConditionCloudy,
	2:  ConditionCloudy,
	3:  ConditionCloudy,
	45: ConditionCloudy,
	48: ConditionCloudy,
	51: ConditionRain,
	53: ConditionRain,
	55: ConditionRain,
	61: ConditionRain,
	63: ConditionRain,
	65: ConditionRain,
	80: ConditionRain,
	81: ConditionRain,
	82: ConditionRain,
	95: ConditionThunderstorm,
	96: ConditionThunderstorm,
	99: ConditionThunderstorm,
}

var symbolByCondition = map[Condition]string{
	ConditionClear:        "sun.max.fill",
	ConditionCloudy:       "cloud.fill",
	ConditionRain:         "cloud.rain.fill",
	ConditionThunderstorm: "cloud.bolt.rain.fill",
}

// Classify maps a WMO weather code to a Condition. Unlisted codes are cloudy.
func Classify(code int) Condition {
	if c, ok := conditionByCode[code]; ok {
		return c
	}
	return ConditionCloudy
}

// ClassifyCode classifies a possibly missing code. A missing code is cloudy.
func ClassifyCode(code *int) Condition {
	if code == nil {
		return ConditionCloudy
	}
	return Classify(*code)
}

// Symbol returns the icon name used by the dashboard for c.
func (c Condition) Symbol() string {
	if s, ok := symbolByCondition[c]; ok {
		return s
	}
	return symbolByCondition[ConditionCloudy]
}
