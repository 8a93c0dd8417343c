package geometryindex

import (
	"sync"

	"github.com/curbwise/curbwise/pkg/cpdf"
	"github.com/rs/zerolog/log"
)

type partitionKey struct {
	City    string
	Dataset cpdf.RestrictionDataset
}

// Index holds one immutable Partition per (city, dataset). Reads are
// lock-free once the partition pointer is taken; a re-import builds a
// whole new partition and swaps the pointer, so in-flight queries never
// see a half-updated index.
type Index struct {
	mu         sync.RWMutex
	partitions map[partitionKey]*Partition
}

func NewIndex() *Index {
	return &Index{
		partitions: map[partitionKey]*Partition{},
	}
}

// ReplacePartition atomically swaps in a freshly built partition for the
// given city and dataset. Geometries that fail validation are skipped and
// logged, never imported.
func (i *Index) ReplacePartition(city string, dataset cpdf.RestrictionDataset, geometries []cpdf.RestrictionGeometry) *Partition {
	key := partitionKey{City: city, Dataset: dataset}

	i.mu.Lock()
	generation := 1
	if existing := i.partitions[key]; existing != nil {
		generation = existing.Generation + 1
	}
	i.mu.Unlock()

	partition := newPartition(city, dataset, generation, geometries)

	i.mu.Lock()
	i.partitions[key] = partition
	i.mu.Unlock()

	log.Info().
		Str("city", city).
		Str("dataset", string(dataset)).
		Int("generation", partition.Generation).
		Int("geometries", len(partition.geometries)).
		Int("skipped", partition.Skipped).
		Msg("Replaced geometry partition")

	return partition
}

func (i *Index) partition(city string, dataset cpdf.RestrictionDataset) *Partition {
	i.mu.RLock()
	defer i.mu.RUnlock()

	return i.partitions[partitionKey{City: city, Dataset: dataset}]
}

// Nearest returns matches ordered by ascending geodesic distance, capped
// at limit. Equidistant geometries keep their insertion order. An empty
// or missing partition gives an empty result, not an error.
func (i *Index) Nearest(city string, dataset cpdf.RestrictionDataset, coord cpdf.Location, maxDistanceMeters float64, limit int) []cpdf.RestrictionMatch {
	partition := i.partition(city, dataset)
	if partition == nil {
		return []cpdf.RestrictionMatch{}
	}

	return partition.Nearest(coord, maxDistanceMeters, limit)
}

// Contains returns every geometry whose polygon contains the point, in
// insertion order. Distance is not computed for containment.
func (i *Index) Contains(city string, dataset cpdf.RestrictionDataset, coord cpdf.Location) []cpdf.RestrictionMatch {
	partition := i.partition(city, dataset)
	if partition == nil {
		return []cpdf.RestrictionMatch{}
	}

	return partition.Contains(coord)
}
