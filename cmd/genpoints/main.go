package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/airiq/mockfeed/internal/geo"
	"github.com/airiq/mockfeed/internal/scatter"
)

// genpoints generates one deterministic sensor set and writes it to a
// file or stdout, as a plain JSON array or a GeoJSON FeatureCollection.
// Useful for seeding fixtures and eyeballing scatter output on a map.
func main() {
	seed := flag.Uint("seed", 20260226, "generation seed (unsigned 32-bit)")
	regionsPath := flag.String("regions", "", "path to regions YAML (built-in clusters when empty)")
	boundariesPath := flag.String("boundaries", "", "path to land boundaries GeoJSON (placement unconstrained when empty)")
	format := flag.String("format", "json", "output format: json or geojson")
	out := flag.String("out", "", "output file (stdout when empty)")
	flag.Parse()

	if *seed > 0xFFFFFFFF {
		log.Fatalf("seed %d does not fit in 32 bits", *seed)
	}

	regions := scatter.DefaultRegions()
	if *regionsPath != "" {
		var err error
		regions, err = scatter.LoadRegions(*regionsPath)
		if err != nil {
			log.Fatalf("Failed to load regions: %v", err)
		}
	}

	var land scatter.LandIndex
	if *boundariesPath != "" {
		index, err := geo.LoadIndex(*boundariesPath)
		if err != nil {
			log.Fatalf("Failed to load boundaries: %v", err)
		}
		land = index
	}

	records := scatter.Generate(regions, uint32(*seed), land)

	var data []byte
	var err error
	switch *format {
	case "json":
		data, err = json.MarshalIndent(records, "", "  ")
	case "geojson":
		data, err = json.MarshalIndent(toFeatureCollection(records), "", "  ")
	default:
		log.Fatalf("Unknown format %q (want json or geojson)", *format)
	}
	if err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}

	if *out == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Wrote %d sensors to %s\n", len(records), *out)
}

func toFeatureCollection(records []scatter.SensorRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		f := geojson.NewFeature(orb.Point{rec.Lng, rec.Lat})
		f.Properties = geojson.Properties{
			"id":        rec.ID,
			"region":    rec.RegionKey,
			"status":    string(rec.Status),
			"pm25":      rec.PM25,
			"intensity": rec.Intensity,
			"fallback":  rec.Fallback,
		}
		fc.Append(f)
	}
	return fc
}
