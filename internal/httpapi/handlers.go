package httpapi

import (
	"net/http"
	"strconv"

	"github.com/airiq/mockfeed/internal/project"
	"github.com/airiq/mockfeed/internal/quality"
	"github.com/airiq/mockfeed/internal/scatter"
)

// markerRecord is a sensor record enriched with the human-readable bands
// shown in marker tooltips.
type markerRecord struct {
	scatter.SensorRecord
	PM25Band        string `json:"pm25_band"`
	TemperatureBand string `json:"temperature_band"`
	HumidityBand    string `json:"humidity_band"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMarkers(w http.ResponseWriter, r *http.Request) {
	records := s.simulator.Records()

	markers := make([]markerRecord, 0, len(records))
	for _, rec := range records {
		markers = append(markers, markerRecord{
			SensorRecord:    rec,
			PM25Band:        quality.LabelForPM25(float64(rec.PM25)),
			TemperatureBand: quality.Label("Temperature", rec.Temperature),
			HumidityBand:    quality.Label("Humidity", float64(rec.Humidity)),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":     s.simulator.Run(),
		"markers": markers,
	})
}

func (s *Server) handleProjected(w http.ResponseWriter, r *http.Request) {
	width, height, ok := s.parseDimensions(w, r)
	if !ok {
		return
	}

	var proj project.Projector
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "simple":
		proj = project.Equirectangular{Width: width, Height: height}
	case "natural":
		proj = project.FitExtent(width, height)
	default:
		s.writeError(w, http.StatusBadRequest, "mode must be simple or natural")
		return
	}

	points := project.ProjectRecords(s.simulator.Records(), proj)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"points": points})
}

func (s *Server) handleOutlines(w http.ResponseWriter, r *http.Request) {
	if s.landIndex == nil {
		s.writeError(w, http.StatusNotFound, "no boundary data configured")
		return
	}

	width, height, ok := s.parseDimensions(w, r)
	if !ok {
		return
	}

	var proj project.Projector
	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "simple":
		proj = project.Equirectangular{Width: width, Height: height}
	case "natural":
		proj = project.FitExtent(width, height)
	default:
		s.writeError(w, http.StatusBadRequest, "mode must be simple or natural")
		return
	}

	paths := project.FeaturePaths(s.landIndex.Geometries(), proj)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"paths": paths})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	records := s.simulator.Records()

	var viewport project.Viewport
	if focus := r.URL.Query().Get("focus"); focus != "" {
		rec, found := s.simulator.Record(focus)
		if !found {
			s.writeError(w, http.StatusNotFound, "unknown sensor id")
			return
		}
		viewport = project.Focus(rec.Lat, rec.Lng, project.DefaultViewport())
	} else {
		viewport = project.Fit(records)
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"viewport": viewport,
		"markers":  project.Markers(records, viewport),
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run":     s.simulator.Run(),
		"regions": s.simulator.Summaries(),
	})
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	seedParam := r.URL.Query().Get("seed")
	if seedParam == "" {
		s.writeError(w, http.StatusBadRequest, "seed query parameter is required")
		return
	}

	seed, err := strconv.ParseUint(seedParam, 10, 32)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "seed must be an unsigned 32-bit integer")
		return
	}

	run := s.simulator.Regenerate(r.Context(), uint32(seed))
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"run": run})
}

func (s *Server) parseDimensions(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	width, err := strconv.ParseFloat(r.URL.Query().Get("width"), 64)
	if err != nil || width <= 0 {
		s.writeError(w, http.StatusBadRequest, "width must be a positive number")
		return 0, 0, false
	}

	height, err := strconv.ParseFloat(r.URL.Query().Get("height"), 64)
	if err != nil || height <= 0 {
		s.writeError(w, http.StatusBadRequest, "height must be a positive number")
		return 0, 0, false
	}

	return width, height, true
}
