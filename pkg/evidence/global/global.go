package global

import (
	"github.com/curbwise/curbwise/pkg/evidence"
	"github.com/curbwise/curbwise/pkg/evidence/source/foia"
	"github.com/curbwise/curbwise/pkg/evidence/source/gpsparking"
	"github.com/curbwise/curbwise/pkg/evidence/source/schedule"
	"github.com/curbwise/curbwise/pkg/evidence/source/streetview"
	"github.com/curbwise/curbwise/pkg/evidence/source/weather"
	"github.com/curbwise/curbwise/pkg/resolver"
	"github.com/curbwise/curbwise/pkg/util"
)

var Aggregator *evidence.Aggregator

// Setup builds the global aggregator with the full source catalogue. The
// registration order here is the order sources appear in every bundle.
func Setup(restrictionResolver *resolver.Resolver) {
	Aggregator = evidence.NewAggregator()

	env := util.GetEnvironmentVariables()

	Aggregator.RegisterSource(weather.Source{
		EndpointURL: env["CURBWISE_WEATHER_HISTORY_URL"],
		APIKey:      env["CURBWISE_WEATHER_API_KEY"],
	})
	Aggregator.RegisterSource(foia.Source{})
	Aggregator.RegisterSource(gpsparking.Source{})
	Aggregator.RegisterSource(streetview.Source{
		MetadataURL: env["CURBWISE_STREETVIEW_METADATA_URL"],
		APIKey:      env["CURBWISE_STREETVIEW_API_KEY"],
	})
	Aggregator.RegisterSource(schedule.Source{
		Resolver: restrictionResolver,
	})
}
