package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"neighborly/models"
	"neighborly/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	ErrNoResult           = errors.New("no address found for the given coordinates")
)

const defaultCacheTTL = 24 * time.Hour

// Geocoder resolves coordinates to a human readable address.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Address, error)
}

// NominatimGeocoder calls a Nominatim-compatible /reverse endpoint.
// Public instances allow one request per second, hence the limiter default.
type NominatimGeocoder struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Cache      *redis.Client
	CacheTTL   time.Duration
	Limiter    *rate.Limiter
}

func NewNominatimGeocoder(baseURL, userAgent string, cache *redis.Client) *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Cache:      cache,
		CacheTTL:   defaultCacheTTL,
		Limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// ValidateCoordinates rejects values outside the WGS84 range.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	return nil
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%s%.5f,%.5f", utils.GeocodeCachePrefix, lat, lng)
}

type nominatimResponse struct {
	Error       string `json:"error"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

func (r nominatimResponse) toAddress(lat, lng float64) *models.Address {
	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}
	addr := &models.Address{
		DisplayName: r.DisplayName,
		Road:        r.Address.Road,
		City:        city,
		State:       r.Address.State,
		Postcode:    r.Address.Postcode,
		Country:     r.Address.Country,
		CountryCode: strings.ToUpper(r.Address.CountryCode),
		Lat:         lat,
		Lng:         lng,
	}
	if v, err := strconv.ParseFloat(r.Lat, 64); err == nil {
		addr.Lat = v
	}
	if v, err := strconv.ParseFloat(r.Lon, 64); err == nil {
		addr.Lng = v
	}
	return addr
}

func (g *NominatimGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*models.Address, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	logger := utils.GetLogger()
	key := cacheKey(lat, lng)

	if g.Cache != nil {
		data, err := g.Cache.Get(ctx, key).Bytes()
		if err == nil {
			var cached models.Address
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			logger.Warn("Geocode cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)
	req.Header.Set("Accept", "application/json")

	client := g.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reverse geocoding returned status %d", resp.StatusCode)
	}
	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode reverse geocoding response: %w", err)
	}
	if body.Error != "" || body.DisplayName == "" {
		return nil, ErrNoResult
	}

	addr := body.toAddress(lat, lng)
	if g.Cache != nil {
		if data, err := json.Marshal(addr); err == nil {
			if err := g.Cache.Set(ctx, key, data, g.CacheTTL).Err(); err != nil {
				logger.Warn("Geocode cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return addr, nil
}
