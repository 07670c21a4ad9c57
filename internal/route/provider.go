package route

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/DigamberMehta/Store2Door-sub001/internal/common/metrics"
	"github.com/DigamberMehta/Store2Door-sub001/pkg/geo"
)

// Path is the raw result of one directions call.
type Path struct {
	Geometry  []geo.Point
	DistanceM float64
	DurationS float64
}

// DirectionsProvider asks an external routing service for a path between two
// waypoints.
type DirectionsProvider interface {
	Directions(ctx context.Context, from, to geo.Point) (*Path, error)
}

// OSRMProvider talks to an OSRM-compatible HTTP routing server.
type OSRMProvider struct {
	BaseURL string
	Client  *http.Client
}

func NewOSRMProvider(baseURL string, timeout time.Duration) *OSRMProvider {
	return &OSRMProvider{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"` // [lon, lat]
		} `json:"geometry"`
	} `json:"routes"`
}

func (p *OSRMProvider) Directions(ctx context.Context, from, to geo.Point) (*Path, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		p.BaseURL, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directions request: %w", err)
	}

	metrics.RouteProviderCallsTotal.Inc()
	resp, err := p.Client.Do(req)
	if err != nil {
		metrics.RouteProviderFailuresTotal.Inc()
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RouteProviderFailuresTotal.Inc()
		return nil, fmt.Errorf("directions provider returned status %d", resp.StatusCode)
	}

	var parsed osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.RouteProviderFailuresTotal.Inc()
		return nil, fmt.Errorf("failed to decode directions response: %w", err)
	}
	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		metrics.RouteProviderFailuresTotal.Inc()
		return nil, fmt.Errorf("directions provider returned no route (code=%s)", parsed.Code)
	}

	best := parsed.Routes[0]
	path := &Path{
		DistanceM: best.Distance,
		DurationS: best.Duration,
		Geometry:  make([]geo.Point, 0, len(best.Geometry.Coordinates)),
	}
	for _, c := range best.Geometry.Coordinates {
		path.Geometry = append(path.Geometry, geo.Point{Lat: c[1], Lon: c[0]})
	}
	return path, nil
}
