package census

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Age returns the whole years between dob (YYYY-MM-DD) and today. ok is
// false when dob does not parse or lies in the future.
func Age(dob string, today time.Time) (age int, ok bool) {
	born, err := time.Parse(DateLayout, strings.TrimSpace(dob))
	if err != nil {
		return 0, false
	}
	age = today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}

// AgeText is Age formatted for the form's Age input; "" clears the field.
func AgeText(dob string, today time.Time) string {
	age, ok := Age(dob, today)
	if !ok {
		return ""
	}
	return strconv.Itoa(age)
}
