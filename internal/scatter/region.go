package scatter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Region is a named geographic cluster to seed with synthetic sensors.
// Placement samples uniformly within center +/- spread on each axis.
type Region struct {
	Key       string  `yaml:"key" json:"key"`
	Lat       float64 `yaml:"lat" json:"lat"`
	Lng       float64 `yaml:"lng" json:"lng"`
	SpreadLat float64 `yaml:"spread_lat" json:"spread_lat"`
	SpreadLng float64 `yaml:"spread_lng" json:"spread_lng"`
	Count     int     `yaml:"count" json:"count"`
}

// LatBounds returns the sampling interval on the latitude axis.
func (r Region) LatBounds() (min, max float64) {
	return r.Lat - r.SpreadLat, r.Lat + r.SpreadLat
}

// LngBounds returns the sampling interval on the longitude axis.
func (r Region) LngBounds() (min, max float64) {
	return r.Lng - r.SpreadLng, r.Lng + r.SpreadLng
}

// Validate checks a region definition for obvious configuration mistakes.
func (r Region) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("region key is required")
	}
	if r.Count <= 0 {
		return fmt.Errorf("region %s: count must be positive", r.Key)
	}
	if r.SpreadLat <= 0 || r.SpreadLng <= 0 {
		return fmt.Errorf("region %s: spreads must be positive", r.Key)
	}
	if r.Lat < -90 || r.Lat > 90 || r.Lng < -180 || r.Lng > 180 {
		return fmt.Errorf("region %s: center out of range", r.Key)
	}
	return nil
}

// TargetCount returns the total number of sensors the region set asks for.
func TargetCount(regions []Region) int {
	total := 0
	for _, r := range regions {
		total += r.Count
	}
	return total
}

type regionsFile struct {
	Regions []Region `yaml:"regions"`
}

// LoadRegions reads region definitions from a YAML file.
func LoadRegions(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}

	var file regionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse regions file: %w", err)
	}
	if len(file.Regions) == 0 {
		return nil, fmt.Errorf("regions file %s defines no regions", path)
	}

	for _, r := range file.Regions {
		if err := r.Validate(); err != nil {
			return nil, err
		}
	}

	return file.Regions, nil
}

// DefaultRegions returns the built-in demo cluster set used when no regions
// file is configured.
func DefaultRegions() []Region {
	return []Region{
		{Key: "north-america", Lat: 40.0, Lng: -98.0, SpreadLat: 14.0, SpreadLng: 24.0, Count: 28},
		{Key: "south-america", Lat: -15.0, Lng: -58.0, SpreadLat: 16.0, SpreadLng: 14.0, Count: 16},
		{Key: "europe", Lat: 49.0, Lng: 12.0, SpreadLat: 10.0, SpreadLng: 18.0, Count: 30},
		{Key: "africa", Lat: 4.0, Lng: 20.0, SpreadLat: 18.0, SpreadLng: 18.0, Count: 18},
		{Key: "south-asia", Lat: 22.0, Lng: 79.0, SpreadLat: 9.0, SpreadLng: 12.0, Count: 24},
		{Key: "east-asia", Lat: 33.0, Lng: 114.0, SpreadLat: 11.0, SpreadLng: 14.0, Count: 26},
		{Key: "oceania", Lat: -27.0, Lng: 140.0, SpreadLat: 10.0, SpreadLng: 16.0, Count: 10},
	}
}
