package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Location результат геокодирования адреса.
type Location struct {
	Latitude  float64
	Longitude float64
	District  string // пусто, если геокодер район не вернул
}

// Geocoder определяет координаты и район по свободному адресу через
// Nominatim-совместимый API.
type Geocoder struct {
	baseURL    string
	city       string
	httpClient *http.Client
}

// NewGeocoder создаёт геокодер. city добавляется к запросу, если адрес
// не содержит города.
func NewGeocoder(baseURL, city string, timeout time.Duration) *Geocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Geocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		city:    city,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type nominatimResult struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		CityDistrict string `json:"city_district"`
		Suburb       string `json:"suburb"`
		City         string `json:"city"`
	} `json:"address"`
}

// Geocode возвращает координаты адреса или nil, если адрес не найден.
// Ошибка означает недоступность сервиса, а не «адрес не найден».
func (g *Geocoder) Geocode(ctx context.Context, address string) (*Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	query := address
	if g.city != "" && !strings.Contains(strings.ToLower(address), strings.ToLower(g.city)) {
		query = address + ", " + g.city
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "1")

	reqURL := g.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim требует идентификацию клиента.
	req.Header.Set("User-Agent", "MVDProject/1.0")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo: код ответа %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("geo: некорректная широта %q", results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("geo: некорректная долгота %q", results[0].Lon)
	}

	district := results[0].Address.CityDistrict
	if district == "" {
		district = results[0].Address.Suburb
	}

	return &Location{
		Latitude:  lat,
		Longitude: lon,
		District:  normalizeDistrict(district),
	}, nil
}

// normalizeDistrict приводит «Центральный район» к «Центральный».
func normalizeDistrict(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, " район")
	return strings.TrimSpace(name)
}
