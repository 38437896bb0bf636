package itinerary

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// localeNames carries the weekday and month names for one display language.
// Weekdays are indexed by time.Weekday (Sunday = 0), months by time.Month-1.
type localeNames struct {
	weekdays [7]string
	months   [12]string
	// render assembles the final label from the localized parts.
	render func(weekday string, day int, month string) string
}

var locales = map[string]localeNames{
	"it": {
		weekdays: [7]string{"domenica", "lunedì", "martedì", "mercoledì", "giovedì", "venerdì", "sabato"},
		months: [12]string{"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
			"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
		render: func(weekday string, day int, month string) string {
			return fmt.Sprintf("%s %d %s", weekday, day, month)
		},
	},
	"en": {
		weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		render: func(weekday string, day int, month string) string {
			return fmt.Sprintf("%s, %s %d", weekday, month, day)
		},
	},
	"de": {
		weekdays: [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
		months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember"},
		render: func(weekday string, day int, month string) string {
			return fmt.Sprintf("%s, %d. %s", weekday, day, month)
		},
	},
}

// FormatGroupDateLabel renders a "YYYY-MM-DD" group key as a long-form
// heading (weekday, day, month) in the given locale. The calendar date is
// built directly from the split components — never parsed through a
// timestamp — so the label can never shift a day across timezones.
//
// Unknown locales fall back to English ("it-IT" and plain "it" both resolve
// to Italian). A string that is not a valid calendar day is returned
// unchanged: a raw key in a heading beats dropping the group.
func FormatGroupDateLabel(date, locale string) string {
	year, month, day, ok := splitDay(date)
	if !ok {
		return date
	}

	lang, _, _ := strings.Cut(locale, "-")
	names, ok := locales[strings.ToLower(lang)]
	if !ok {
		names = locales["en"]
	}

	// time.Date normalizes out-of-range components, so an input such as
	// 2024-02-31 would silently become March; reject those instead.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return date
	}

	return names.render(names.weekdays[t.Weekday()], day, names.months[month-1])
}

// splitDay breaks "YYYY-MM-DD" into numeric components without any timezone
// interpretation.
func splitDay(s string) (year, month, day int, ok bool) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil || month < 1 || month > 12 {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
