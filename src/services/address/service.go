package address

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Backend-Claim3000/src/config"
	"Backend-Claim3000/src/database"
	"Backend-Claim3000/src/models"
)

// HTTPClient is shared for all provider calls; tests swap it out.
var HTTPClient = &http.Client{Timeout: 10 * time.Second}

const cacheTTL = 24 * time.Hour

// getAddress.io "find?expand=true" response shape.
type providerResponse struct {
	Postcode  string `json:"postcode"`
	Addresses []struct {
		Line1      string `json:"line_1"`
		Line2      string `json:"line_2"`
		Line3      string `json:"line_3"`
		TownOrCity string `json:"town_or_city"`
		County     string `json:"county"`
		District   string `json:"district"`
	} `json:"addresses"`
}

// Lookup fetches candidate addresses for a postcode. An empty slice with
// a nil error means the provider answered but had nothing usable; a
// non-nil error means the provider call itself failed. Callers must keep
// those apart ("enter manually" vs "try again").
func Lookup(ctx context.Context, postcode string) ([]models.Address, error) {
	postcode = strings.ToUpper(strings.TrimSpace(postcode))

	if cached, ok := cacheGet(ctx, postcode); ok {
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s/find/%s?api-key=%s&expand=true",
		config.GetAddressURL, url.PathEscape(postcode), url.QueryEscape(config.GetAddressAPIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	res, err := HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("address provider returned status %s", res.Status)
	}

	var body providerResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}

	addresses := normalize(&body)
	addresses = FilterComplete(addresses)

	if len(addresses) > 0 {
		cacheSet(ctx, postcode, addresses)
	}
	return addresses, nil
}

func normalize(body *providerResponse) []models.Address {
	out := make([]models.Address, 0, len(body.Addresses))
	for _, a := range body.Addresses {
		county := a.County
		if county == "" {
			county = a.District
		}
		street := joinNonEmpty(" ", a.Line2, a.Line3)
		label := joinNonEmpty(", ", joinNonEmpty(" ", a.Line1, a.Line2, a.Line3), a.TownOrCity, body.Postcode)

		out = append(out, models.Address{
			House:    a.Line1,
			Street:   street,
			City:     a.TownOrCity,
			County:   county,
			District: a.District,
			Postcode: body.Postcode,
			Label:    label,
		})
	}
	return out
}

// FilterComplete drops provider records missing any of house, street,
// city or postcode. Incomplete rows are silently unusable downstream.
func FilterComplete(addresses []models.Address) []models.Address {
	out := addresses[:0]
	for _, a := range addresses {
		if strings.TrimSpace(a.House) == "" || strings.TrimSpace(a.Street) == "" ||
			strings.TrimSpace(a.City) == "" || strings.TrimSpace(a.Postcode) == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

/* ---- Redis cache (optional) ---- */

func cacheKey(postcode string) string {
	return "addr:" + postcode
}

func cacheGet(ctx context.Context, postcode string) ([]models.Address, bool) {
	if database.RedisClient == nil {
		return nil, false
	}
	raw, err := database.RedisClient.Get(ctx, cacheKey(postcode)).Result()
	if err != nil {
		return nil, false
	}
	var addresses []models.Address
	if err := json.Unmarshal([]byte(raw), &addresses); err != nil {
		return nil, false
	}
	return addresses, true
}

func cacheSet(ctx context.Context, postcode string, addresses []models.Address) {
	if database.RedisClient == nil {
		return
	}
	raw, err := json.Marshal(addresses)
	if err != nil {
		return
	}
	database.RedisClient.Set(ctx, cacheKey(postcode), raw, cacheTTL)
}
