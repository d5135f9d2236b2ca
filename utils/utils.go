package utils

import (
	rndm "math/rand"
	"time"

	"github.com/google/uuid"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")
var digitRunes = []rune("0123456789")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

func GetUUID() string {
	return uuid.New().String()
}

// --- Calendar Helpers ---

// TimestampLayout is the wire layout the prediction service expects.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout keys event records by calendar date.
const DateLayout = "2006-01-02"

// DayInfo returns the weekday name and a 0/1 weekend flag for t.
func DayInfo(t time.Time) (dayOfWeek string, isWeekend int) {
	dayOfWeek = t.Weekday().String()
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		isWeekend = 1
	}
	return dayOfWeek, isWeekend
}
