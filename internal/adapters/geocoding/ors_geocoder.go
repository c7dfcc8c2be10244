package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tiffin-route-service/internal/domain"
	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultCountry = "CA"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// ORSGeocoder implements ports.Geocoder using OpenRouteService
// (/geocode/search). Results are read from and written to an optional
// persistent cache. It is safe for concurrent use.
type ORSGeocoder struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	country     string
	cache       ports.GeocodeCache
	maxAttempts int
	backoff     time.Duration
}

type Option func(*ORSGeocoder)

func WithBaseURL(u string) Option {
	return func(o *ORSGeocoder) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithCountry(c string) Option {
	return func(o *ORSGeocoder) { o.country = c }
}

func WithCache(c ports.GeocodeCache) Option {
	return func(o *ORSGeocoder) { o.cache = c }
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *ORSGeocoder) { o.session = c }
}

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(o *ORSGeocoder) {
		if maxAttempts > 0 {
			o.maxAttempts = maxAttempts
		}
		o.backoff = backoff
	}
}

func NewORSGeocoder(apiKey string, opts ...Option) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	o := &ORSGeocoder{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     DefaultBaseURL,
		country:     DefaultCountry,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves addresses, consulting the cache first. The result is keyed
// by the caller's address strings; addresses with no match are omitted.
// Lookup failures are joined into the returned error alongside whatever
// did resolve.
func (o *ORSGeocoder) Geocode(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	// normalized -> original spellings
	byNorm := make(map[string][]string, len(addresses))
	var order []string
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			continue
		}
		if _, ok := byNorm[n]; !ok {
			order = append(order, n)
		}
		byNorm[n] = append(byNorm[n], a)
	}

	resolved := make(map[string]domain.Coordinates, len(order))
	if o.cache != nil && len(order) > 0 {
		cached, err := o.cache.GetMany(ctx, order)
		if err != nil {
			obs.L(ctx).WithError(err).Warn("geocode cache read failed")
		}
		for k, v := range cached {
			resolved[k] = v
		}
	}

	fresh := make(map[string]domain.Coordinates)
	var errs []error
	for _, n := range order {
		if _, ok := resolved[n]; ok {
			continue
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = append(errs, ctxErr)
			break
		}
		c, found, err := o.search(ctx, n)
		if err != nil {
			errs = append(errs, fmt.Errorf("geocode %q: %w", n, err))
			continue
		}
		if !found {
			obs.L(ctx).WithField("address", n).Info("no geocode result")
			continue
		}
		fresh[n] = c
		resolved[n] = c
	}

	if o.cache != nil && len(fresh) > 0 {
		if err := o.cache.PutMany(ctx, fresh); err != nil {
			obs.L(ctx).WithError(err).Warn("geocode cache write failed")
		}
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for n, c := range resolved {
		for _, orig := range byNorm[n] {
			out[orig] = c
		}
	}
	return out, errors.Join(errs...)
}

func (o *ORSGeocoder) search(ctx context.Context, text string) (domain.Coordinates, bool, error) {
	endpoint := o.baseURL + "/geocode/search"

	resp, err := o.sendWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newSearchRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, false, nil
	}

	// GeoJSON order is [lng, lat].
	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Coordinates{}, false, fmt.Errorf("invalid coordinate format for %q", text)
	}

	c := domain.Coordinates{Lat: coords[1], Lng: coords[0]}
	if !c.Valid() {
		return domain.Coordinates{}, false, fmt.Errorf("out of range coordinates for %q", text)
	}
	return c, true, nil
}
