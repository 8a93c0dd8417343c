package cpdf

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// SchoolHolidays maps year -> holiday id -> date. Populated once at
// startup; the camera enforcement check only does map lookups afterwards.
var SchoolHolidays = make(map[int]map[string]time.Time)

const YearMonthDayFormat = "2006-01-02"

// Summer recess bounds. District calendars shift these by a few days each
// year; the feed overrides them when it carries recess entries.
var summerRecessStart = map[int]time.Time{}
var summerRecessEnd = map[int]time.Time{}

func LoadSchoolCalendarCache(feedURL string) {
	for year := time.Now().Year() - 2; year <= time.Now().Year()+1; year++ {
		loadFederalHolidays(year)

		summerRecessStart[year] = time.Date(year, 6, 15, 0, 0, 0, 0, time.UTC)
		summerRecessEnd[year] = time.Date(year, 8, 31, 0, 0, 0, 0, time.UTC)
	}

	if feedURL != "" {
		loadDistrictCalendarFeed(feedURL)
	}
}

func loadDistrictCalendarFeed(feedURL string) {
	type calendarEventSchema struct {
		ID    string
		Title string
		Date  string
	}
	type calendarSchema struct {
		Events []calendarEventSchema
	}

	resp, err := http.Get(feedURL)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get school calendar feed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("Failed to get school calendar feed")
		return
	}

	var calendarRaw calendarSchema
	err = json.NewDecoder(resp.Body).Decode(&calendarRaw)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode school calendar feed")
		return
	}

	for _, event := range calendarRaw.Events {
		eventDate, err := time.Parse(YearMonthDayFormat, event.Date)
		if err != nil {
			continue
		}

		switch event.ID {
		case "summer-recess-start":
			summerRecessStart[eventDate.Year()] = eventDate
		case "summer-recess-end":
			summerRecessEnd[eventDate.Year()] = eventDate
		default:
			if SchoolHolidays[eventDate.Year()] == nil {
				SchoolHolidays[eventDate.Year()] = make(map[string]time.Time)
			}
			SchoolHolidays[eventDate.Year()][event.ID] = eventDate
		}
	}
}

func loadFederalHolidays(year int) {
	if SchoolHolidays[year] == nil {
		SchoolHolidays[year] = make(map[string]time.Time)
	}
	yearMap := SchoolHolidays[year]

	yearMap["us-holiday-NewYearsDay"] = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	yearMap["us-holiday-MLKDay"] = nthWeekdayOfMonth(year, 1, time.Monday, 3)
	yearMap["us-holiday-PresidentsDay"] = nthWeekdayOfMonth(year, 2, time.Monday, 3)
	yearMap["us-holiday-MemorialDay"] = lastWeekdayOfMonth(year, 5, time.Monday)
	yearMap["us-holiday-Juneteenth"] = time.Date(year, 6, 19, 0, 0, 0, 0, time.UTC)
	yearMap["us-holiday-IndependenceDay"] = time.Date(year, 7, 4, 0, 0, 0, 0, time.UTC)
	yearMap["us-holiday-LaborDay"] = nthWeekdayOfMonth(year, 9, time.Monday, 1)
	yearMap["us-holiday-VeteransDay"] = time.Date(year, 11, 11, 0, 0, 0, 0, time.UTC)
	yearMap["us-holiday-Thanksgiving"] = nthWeekdayOfMonth(year, 11, time.Thursday, 4)
	yearMap["us-holiday-ThanksgivingFriday"] = nthWeekdayOfMonth(year, 11, time.Thursday, 4).AddDate(0, 0, 1)
	yearMap["us-holiday-ChristmasDay"] = time.Date(year, 12, 25, 0, 0, 0, 0, time.UTC)
}

func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	date := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for date.Weekday() != weekday {
		date = date.AddDate(0, 0, 1)
	}
	return date.AddDate(0, 0, (n-1)*7)
}

func lastWeekdayOfMonth(year int, month time.Month, weekday time.Weekday) time.Time {
	date := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for date.Weekday() != weekday {
		date = date.AddDate(0, 0, -1)
	}
	return date
}

func IsSchoolHoliday(date time.Time) bool {
	yearMap := SchoolHolidays[date.Year()]

	for _, holiday := range yearMap {
		if holiday.Year() == date.Year() && holiday.Month() == date.Month() && holiday.Day() == date.Day() {
			return true
		}
	}

	return false
}

func IsSummerRecess(date time.Time) bool {
	start, hasStart := summerRecessStart[date.Year()]
	end, hasEnd := summerRecessEnd[date.Year()]

	if !hasStart || !hasEnd {
		// Fall back to the default mid-June through August window
		start = time.Date(date.Year(), 6, 15, 0, 0, 0, 0, time.UTC)
		end = time.Date(date.Year(), 8, 31, 0, 0, 0, 0, time.UTC)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// IsSchoolDay reports whether schools are in session on the given date:
// a weekday outside holidays and summer recess.
func IsSchoolDay(date time.Time) bool {
	if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		return false
	}

	if IsSchoolHoliday(date) || IsSummerRecess(date) {
		return false
	}

	return true
}
