package model

// PrayerTime is one prayer's start time for a location and day.
type PrayerTime struct {
	Name   string `json:"name"`
	Time24 string `json:"time"`
	Time12 string `json:"time_12h"`
	Period string `json:"period"`
}

type PrayerTimes struct {
	Date      string       `json:"date"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone,omitempty"`
	Prayers   []PrayerTime `json:"prayers"`
}
