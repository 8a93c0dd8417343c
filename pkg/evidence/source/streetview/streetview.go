package streetview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/curbwise/curbwise/pkg/cpdf"
)

// Source checks whether street-level imagery exists near the citation
// location. Imagery of missing or obscured signage is attached to contest
// letters by the generation layer; this source only establishes
// availability and capture date.
type Source struct {
	MetadataURL string
	APIKey      string
}

func (s Source) Key() cpdf.EvidenceSourceKey {
	return cpdf.EvidenceSourceStreetView
}

func (s Source) Lookup(ctx context.Context, ticket *cpdf.Ticket) (*cpdf.EvidenceSource, error) {
	requestURL := fmt.Sprintf("%s?location=%.5f,%.5f&key=%s",
		s.MetadataURL,
		ticket.Location.Latitude(),
		ticket.Location.Longitude(),
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

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagery metadata endpoint returned %d", response.StatusCode)
	}

	var metadataSchema struct {
		Status     string `json:"status"`
		PanoramaID string `json:"pano_id"`
		Date       string `json:"date"`
	}
	if err := json.NewDecoder(response.Body).Decode(&metadataSchema); err != nil {
		return nil, err
	}

	if metadataSchema.Status != "OK" {
		return &cpdf.EvidenceSource{
			Key:    s.Key(),
			Status: cpdf.EvidenceStatusCheckedNotUsed,
		}, nil
	}

	captureDate, _ := time.Parse("2006-01", metadataSchema.Date)

	return &cpdf.EvidenceSource{
		Key:    s.Key(),
		Status: cpdf.EvidenceStatusFound,
		Payload: cpdf.StreetViewEvidencePayload{
			ImageryAvailable: true,
			CaptureDate:      captureDate,
			PanoramaID:       metadataSchema.PanoramaID,
		},
	}, nil
}
