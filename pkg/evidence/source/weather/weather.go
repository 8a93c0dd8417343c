package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/curbwise/curbwise/pkg/cpdf"
)

// Source looks up the historical weather for the ticket's location on the
// day of the violation. Heavy rain routinely cancels street sweeping and
// light snowfall undermines a snow-ban citation, so the day's weather is
// often the strongest single piece of evidence.
type Source struct {
	// EndpointURL is the weather-history provider, eg. an archive API
	// taking lat, lon & date query parameters
	EndpointURL string
	APIKey      string
}

const sweepingRainThresholdInches = 0.5
const snowBanSnowfallThresholdInches = 2.0

func (s Source) Key() cpdf.EvidenceSourceKey {
	return cpdf.EvidenceSourceWeather
}

func (s Source) Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error) {
	requestURL := fmt.Sprintf("%s?lat=%.5f&lon=%.5f&date=%s&key=%s",
		s.EndpointURL,
		ticket.Location.Latitude(),
		ticket.Location.Longitude(),
		ticket.IssueDateTime.Format(cpdf.YearMonthDayFormat),
		url.QueryEscape(s.APIKey),
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	response, err := http.DefaultClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusNotFound {
		return &cpdf.EvidenceSource{
			Key:    s.Key(),
			Status: cpdf.EvidenceStatusCheckedNotUsed,
		}, nil
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned %d", response.StatusCode)
	}

	var daySchema struct {
		SnowfallInches      float64 `json:"snowfall_inches"`
		PrecipitationInches float64 `json:"precipitation_inches"`
		TemperatureHighF    float64 `json:"temperature_high_f"`
		TemperatureLowF     float64 `json:"temperature_low_f"`
		Conditions          string  `json:"conditions"`
	}
	if err := json.NewDecoder(response.Body).Decode(&daySchema); err != nil {
		return nil, err
	}

	payload := cpdf.WeatherEvidencePayload{
		SnowfallInches:      daySchema.SnowfallInches,
		PrecipitationInches: daySchema.PrecipitationInches,
		TemperatureHighF:    daySchema.TemperatureHighF,
		TemperatureLowF:     daySchema.TemperatureLowF,
		Conditions:          daySchema.Conditions,
	}

	return &cpdf.EvidenceSource{
		Key:             s.Key(),
		Status:          cpdf.EvidenceStatusFound,
		DefenseRelevant: defenseRelevant(ticket.ViolationType, payload),
		Payload:         payload,
	}, nil
}

func defenseRelevant(violationType cpdf.ViolationType, payload cpdf.WeatherEvidencePayload) bool {
	switch violationType {
	case cpdf.ViolationTypeStreetCleaning:
		// Sweeping is typically cancelled in heavy rain
		return payload.PrecipitationInches >= sweepingRainThresholdInches
	case cpdf.ViolationTypeSnowRoute:
		// A ban citation without qualifying snowfall is contestable
		return payload.SnowfallInches < snowBanSnowfallThresholdInches
	}

	return false
}
