package prayertimes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
)

const cacheTTL = 24 * time.Hour

var order = []string{"Fajr", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Client looks up daily prayer times from the Aladhan API (ISNA method).
type Client struct {
	http    *http.Client
	baseURL string
	cache   *redis.Cache
}

func NewClient(baseURL string, cache *redis.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   cache,
	}
}

func cacheKey(lat, lon float64, date model.Date) string {
	return fmt.Sprintf("prayertimes:%.4f:%.4f:%s", lat, lon, date.String())
}

// Times returns the five prayer times for a location and day, served from cache when possible.
func (c *Client) Times(ctx context.Context, lat, lon float64, date model.Date) (*model.PrayerTimes, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("coordinates out of range")
	}

	key := cacheKey(lat, lon, date)
	var cached model.PrayerTimes
	if hit, err := c.cache.GetJSON(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[prayertimes] cache read failed")
	} else if hit {
		return &cached, nil
	}

	url := fmt.Sprintf("%s/%s?latitude=%f&longitude=%f&method=2",
		c.baseURL, date.Format("02-01-2006"), lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer times: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get prayer times: status %d", resp.StatusCode)
	}

	var aladhan struct {
		Data struct {
			Timings map[string]string `json:"timings"`
			Meta    struct {
				Timezone string `json:"timezone"`
			} `json:"meta"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&aladhan); err != nil {
		return nil, fmt.Errorf("decode prayer times: %w", err)
	}

	out := &model.PrayerTimes{
		Date:      date.String(),
		Latitude:  lat,
		Longitude: lon,
		Timezone:  aladhan.Data.Meta.Timezone,
		Prayers:   make([]model.PrayerTime, 0, len(order)),
	}
	for _, name := range order {
		t24, ok := aladhan.Data.Timings[name]
		if !ok {
			return nil, fmt.Errorf("prayer times response missing %s", name)
		}
		pt, err := toPrayerTime(strings.ToLower(name), t24)
		if err != nil {
			return nil, err
		}
		out.Prayers = append(out.Prayers, pt)
	}

	if err := c.cache.SetJSON(ctx, key, out, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("[prayertimes] cache write failed")
	}
	return out, nil
}

// toPrayerTime converts "17:30" or "17:30 (CST)" into its 24h and 12h forms.
func toPrayerTime(name, raw string) (model.PrayerTime, error) {
	t24 := strings.TrimSpace(strings.SplitN(raw, " ", 2)[0])
	parts := strings.Split(t24, ":")
	if len(parts) != 2 {
		return model.PrayerTime{}, fmt.Errorf("bad time %q for %s", raw, name)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return model.PrayerTime{}, fmt.Errorf("bad hour %q for %s", raw, name)
	}
	period := "AM"
	h12 := h
	switch {
	case h == 0:
		h12 = 12
	case h == 12:
		period = "PM"
	case h > 12:
		period = "PM"
		h12 = h - 12
	}
	return model.PrayerTime{
		Name:   name,
		Time24: t24,
		Time12: fmt.Sprintf("%02d:%s", h12, parts[1]),
		Period: period,
	}, nil
}
