package chicagosweeping

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/dataimporter/datasets"
	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// sweepingScheduleRecord is one row of the Chicago street sweeping
// schedule export: a ward/section polygon with its posted schedule.
type sweepingScheduleRecord struct {
	Geometry   string `csv:"the_geom"`
	Ward       string `csv:"ward"`
	Section    string `csv:"section"`
	Schedule   string `csv:"schedule"`
	StreetName string `csv:"street_name"`
}

func ParseGeometries(reader io.Reader, dataset *datasets.DataSet) ([]cpdf.RestrictionGeometry, error) {
	var records []*sweepingScheduleRecord
	if err := gocsv.Unmarshal(reader, &records); err != nil {
		return nil, err
	}

	var geometries []cpdf.RestrictionGeometry
	skipped := 0

	for _, record := range records {
		ring, err := parseWKTRing(record.Geometry)
		if err != nil {
			// The portal export routinely contains a handful of rows
			// with empty or truncated geometry
			skipped += 1
			continue
		}

		geometries = append(geometries, cpdf.RestrictionGeometry{
			PrimaryIdentifier: fmt.Sprintf("%s-ward%s-section%s", dataset.Identifier, record.Ward, record.Section),

			City:    dataset.City,
			Dataset: dataset.Dataset,

			GeometryKind: cpdf.GeometryKindPolygon,
			Points:       ring,

			Attributes: cpdf.RestrictionAttributes{
				ScheduleText: record.Schedule,
				StreetName:   record.StreetName,
				Ward:         record.Ward,
				Section:      record.Section,
				Schedule:     ParseScheduleText(record.Schedule),
			},

			DataSource: &cpdf.DataSourceReference{
				Provider:   dataset.Provider.Name,
				Dataset:    dataset.Identifier,
				Identifier: fmt.Sprintf("ward%s-section%s", record.Ward, record.Section),
			},
		})
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Skipped sweeping rows with unparseable geometry")
	}

	return geometries, nil
}

// parseWKTRing extracts the exterior ring from a POLYGON or MULTIPOLYGON
// WKT string. Interior rings and additional polygons are dropped; the
// exterior ring is all the matcher needs for ward sections.
func parseWKTRing(wkt string) ([][]float64, error) {
	start := strings.Index(wkt, "((")
	if start == -1 {
		return nil, fmt.Errorf("no ring in geometry")
	}

	ringText := wkt[start:]
	ringText = strings.TrimLeft(ringText, "(")

	end := strings.IndexAny(ringText, ")")
	if end == -1 {
		return nil, fmt.Errorf("unterminated ring in geometry")
	}
	ringText = ringText[:end]

	var ring [][]float64
	for _, pairText := range strings.Split(ringText, ",") {
		fields := strings.Fields(strings.TrimSpace(pairText))
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed coordinate pair %q", pairText)
		}

		lon, lonErr := strconv.ParseFloat(fields[0], 64)
		lat, latErr := strconv.ParseFloat(fields[1], 64)
		if lonErr != nil || latErr != nil {
			return nil, fmt.Errorf("malformed coordinate pair %q", pairText)
		}

		ring = append(ring, []float64{lon, lat})
	}

	if len(ring) < 3 {
		return nil, fmt.Errorf("ring has fewer than 3 points")
	}

	return ring, nil
}

var ordinalWeeks = map[string]int{
	"1st": 1,
	"2nd": 2,
	"3rd": 3,
	"4th": 4,
	"5th": 5,
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "thur": time.Thursday,
	"thurs": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

// ParseScheduleText converts posted schedule text like
// "1st & 3rd Wed 9AM-3PM Apr-Nov" into a structured window. Unrecognised
// fragments are ignored; a nil result means nothing could be parsed and
// the caller should fall back to the raw text.
func ParseScheduleText(text string) *cpdf.ScheduleWindow {
	window := &cpdf.ScheduleWindow{}
	parsedAnything := false

	for _, token := range strings.Fields(strings.ReplaceAll(text, ",", " ")) {
		token = strings.TrimSpace(token)

		if week, ok := ordinalWeeks[strings.ToLower(token)]; ok {
			window.WeeksOfMonth = append(window.WeeksOfMonth, week)
			parsedAnything = true
			continue
		}

		if weekday, ok := weekdayNames[strings.ToLower(token)]; ok {
			window.DaysOfWeek = append(window.DaysOfWeek, weekday)
			parsedAnything = true
			continue
		}

		if hourStart, hourEnd, ok := parseHourRange(token); ok {
			window.HourStart = hourStart
			window.HourEnd = hourEnd
			parsedAnything = true
			continue
		}

		if monthStart, monthEnd, ok := parseMonthRange(token); ok {
			window.MonthStart = monthStart
			window.MonthEnd = monthEnd
			parsedAnything = true
		}
	}

	if !parsedAnything {
		return nil
	}

	return window
}

func parseHourRange(token string) (int, int, bool) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, startOK := parseHour(parts[0])
	end, endOK := parseHour(parts[1])
	if !startOK || !endOK {
		return 0, 0, false
	}

	return start, end, true
}

func parseHour(text string) (int, bool) {
	text = strings.ToUpper(strings.TrimSpace(text))

	meridiem := ""
	if strings.HasSuffix(text, "AM") || strings.HasSuffix(text, "PM") {
		meridiem = text[len(text)-2:]
		text = text[:len(text)-2]
	} else {
		return 0, false
	}

	hour, err := strconv.Atoi(text)
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}

	if meridiem == "PM" && hour != 12 {
		hour += 12
	}
	if meridiem == "AM" && hour == 12 {
		hour = 0
	}

	return hour, true
}

var monthNames = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func parseMonthRange(token string) (time.Month, time.Month, bool) {
	parts := strings.Split(strings.ToLower(token), "-")
	if len(parts) != 2 {
		return 0, 0, false
	}

	start, startOK := monthNames[parts[0]]
	end, endOK := monthNames[parts[1]]
	if !startOK || !endOK {
		return 0, 0, false
	}

	return start, end, true
}
