package resolver

import (
	"context"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/curbwise/curbwise/pkg/geometryindex"
	"github.com/rs/zerolog/log"
)

const DefaultThresholdMeters = 30.0
const DefaultMaxResults = 10

// datasetGeometryKinds decides contains vs nearest per dataset. Polygon
// datasets use containment, line datasets use nearest-within-threshold.
var datasetGeometryKinds = map[cpdf.RestrictionDataset]cpdf.GeometryKind{
	cpdf.RestrictionDatasetStreetCleaning: cpdf.GeometryKindPolygon,
	cpdf.RestrictionDatasetSnowRoute:      cpdf.GeometryKindLine,
	cpdf.RestrictionDatasetPermitZone:     cpdf.GeometryKindPolygon,
}

// timeBoundedDatasets are enriched with the governing ban status.
var timeBoundedDatasets = map[cpdf.RestrictionDataset]bool{
	cpdf.RestrictionDatasetSnowRoute: true,
}

// BanStatusProvider is the lookup the resolver uses to enrich
// time-bounded matches. Implemented by the banstatus manager.
type BanStatusProvider interface {
	Get(ctx context.Context, city string, restrictionType cpdf.RestrictionDataset) (*cpdf.BanStatus, error)
}

type Options struct {
	// Datasets restricts which datasets are consulted. Empty means all.
	Datasets []cpdf.RestrictionDataset

	// ThresholdMeters overrides the nearest-match threshold for line
	// datasets. Zero means the 30m default.
	ThresholdMeters float64

	// MaxResults caps the matches per dataset. Zero means the default of
	// 10, which covers a point sitting on a boundary between zones.
	MaxResults int
}

type Resolver struct {
	Index     *geometryindex.Index
	BanStatus BanStatusProvider

	Cache *Cache
}

func NewResolver(index *geometryindex.Index, banStatus BanStatusProvider) *Resolver {
	return &Resolver{
		Index:     index,
		BanStatus: banStatus,
	}
}

// Resolve answers "what restrictions apply at this coordinate, right
// now". An empty result means no restriction was found, which is a valid
// answer and not an error; only a storage failure returns an error.
func (r *Resolver) Resolve(ctx context.Context, city string, coord cpdf.Location, opts *Options) ([]cpdf.RestrictionMatch, error) {
	if opts == nil {
		opts = &Options{}
	}

	threshold := opts.ThresholdMeters
	if threshold == 0 {
		threshold = DefaultThresholdMeters
	}

	maxResults := opts.MaxResults
	if maxResults == 0 {
		maxResults = DefaultMaxResults
	}

	datasets := opts.Datasets
	if len(datasets) == 0 {
		datasets = []cpdf.RestrictionDataset{
			cpdf.RestrictionDatasetStreetCleaning,
			cpdf.RestrictionDatasetSnowRoute,
			cpdf.RestrictionDatasetPermitZone,
		}
	}

	if r.Cache != nil {
		if cached, found := r.Cache.Get(ctx, city, coord, opts); found {
			return cached, nil
		}
	}

	matches := []cpdf.RestrictionMatch{}
	for _, dataset := range datasets {
		var datasetMatches []cpdf.RestrictionMatch

		if datasetGeometryKinds[dataset] == cpdf.GeometryKindPolygon {
			datasetMatches = r.Index.Contains(city, dataset, coord)

			if len(datasetMatches) > maxResults {
				datasetMatches = datasetMatches[:maxResults]
			}
		} else {
			datasetMatches = r.Index.Nearest(city, dataset, coord, threshold, maxResults)
		}

		if timeBoundedDatasets[dataset] && len(datasetMatches) > 0 {
			r.enrichBanStatus(ctx, city, dataset, datasetMatches)
		}

		matches = append(matches, datasetMatches...)
	}

	if r.Cache != nil {
		r.Cache.Set(ctx, city, coord, opts, matches)
	}

	return matches, nil
}

func (r *Resolver) enrichBanStatus(ctx context.Context, city string, dataset cpdf.RestrictionDataset, matches []cpdf.RestrictionMatch) {
	if r.BanStatus == nil {
		return
	}

	banStatus, err := r.BanStatus.Get(ctx, city, dataset)
	if err != nil {
		// A missing ban record just means nothing has ever activated it
		log.Debug().Err(err).Str("city", city).Str("dataset", string(dataset)).Msg("No ban status for dataset")
		return
	}

	for index := range matches {
		matches[index].BanStatus = banStatus
	}
}
