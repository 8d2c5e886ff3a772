package prayertimes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/familyhub/internal/model"
	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
)

const aladhanBody = `{"code":200,"data":{"timings":{"Fajr":"05:12","Sunrise":"06:40","Dhuhr":"12:01","Asr":"15:30 (CST)","Maghrib":"18:05","Isha":"19:35"},"meta":{"timezone":"America/Chicago"}}}`

func TestToPrayerTime(t *testing.T) {
	cases := []struct {
		raw, t12, period string
	}{
		{"05:12", "05:12", "AM"},
		{"00:30", "12:30", "AM"},
		{"12:01", "12:01", "PM"},
		{"17:30 (EST)", "05:30", "PM"},
	}
	for _, c := range cases {
		pt, err := toPrayerTime("x", c.raw)
		require.NoError(t, err, c.raw)
		assert.Equal(t, c.t12, pt.Time12, c.raw)
		assert.Equal(t, c.period, pt.Period, c.raw)
	}

	_, err := toPrayerTime("x", "25:00")
	assert.Error(t, err)
	_, err = toPrayerTime("x", "noon")
	assert.Error(t, err)
}

func TestClient_TimesAndCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/16-03-2025", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("method"))
		_, _ = w.Write([]byte(aladhanBody))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewCacheWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	c := NewClient(srv.URL, cache)

	date := model.NewDate(time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC))
	got, err := c.Times(context.Background(), 41.8781, -87.6298, date)
	require.NoError(t, err)
	require.Len(t, got.Prayers, 5)
	assert.Equal(t, "fajr", got.Prayers[0].Name)
	assert.Equal(t, "15:30", got.Prayers[2].Time24)
	assert.Equal(t, "03:30", got.Prayers[2].Time12)
	assert.Equal(t, "America/Chicago", got.Timezone)

	again, err := c.Times(context.Background(), 41.8781, -87.6298, date)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Times(context.Background(), 1, 1, model.Today())
	assert.Error(t, err)
}

func TestClient_RejectsBadCoordinates(t *testing.T) {
	_, err := NewClient("http://unused", nil).Times(context.Background(), 91, 0, model.Today())
	assert.Error(t, err)
}
