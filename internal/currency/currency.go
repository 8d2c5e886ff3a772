package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Nixie-Tech-LLC/familyhub/internal/redis"
)

const (
	SourceLive     = "live"
	SourceFallback = "fallback"
	SourceIdentity = "identity"

	cacheTTL = 6 * time.Hour
)

var ErrUnknownCurrency = errors.New("unknown currency")

// fallbackUSD is served whenever the rates API cannot be reached. Units per 1 USD.
var fallbackUSD = map[string]decimal.Decimal{
	"USD": decimal.NewFromInt(1),
	"EUR": decimal.RequireFromString("0.92"),
	"GBP": decimal.RequireFromString("0.79"),
	"INR": decimal.RequireFromString("83.12"),
	"PKR": decimal.RequireFromString("278.50"),
	"BDT": decimal.RequireFromString("109.75"),
	"SAR": decimal.RequireFromString("3.75"),
	"AED": decimal.RequireFromString("3.67"),
	"QAR": decimal.RequireFromString("3.64"),
	"KWD": decimal.RequireFromString("0.31"),
	"EGP": decimal.RequireFromString("47.10"),
	"TRY": decimal.RequireFromString("32.20"),
	"MYR": decimal.RequireFromString("4.72"),
	"IDR": decimal.RequireFromString("15650"),
	"CAD": decimal.RequireFromString("1.36"),
	"AUD": decimal.RequireFromString("1.52"),
}

type Rates struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	Source    string                     `json:"source"`
	FetchedAt time.Time                  `json:"fetched_at"`
}

type Conversion struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from"`
	To     string          `json:"to"`
	Rate   decimal.Decimal `json:"rate"`
	Result decimal.Decimal `json:"result"`
	Source string          `json:"source"`
}

// Service fetches exchange rates, caches live answers, and degrades to the fallback table.
type Service struct {
	http    *http.Client
	baseURL string
	cache   *redis.Cache
	now     func() time.Time
}

func NewService(baseURL string, cache *redis.Cache) *Service {
	return &Service{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		cache:   cache,
		now:     time.Now,
	}
}

func Normalize(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

// Rates never fails for a known base: any upstream problem yields the fallback table.
func (s *Service) Rates(ctx context.Context, base string) (*Rates, error) {
	base = Normalize(base)
	if base == "" {
		base = "USD"
	}

	key := "rates:" + base
	var cached Rates
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err != nil {
		log.Warn().Err(err).Str("base", base).Msg("[currency] cache read failed")
	} else if hit {
		return &cached, nil
	}

	live, err := s.fetch(ctx, base)
	if err != nil {
		log.Warn().Err(err).Str("base", base).Msg("[currency] using fallback rates")
		return Fallback(base, s.now())
	}
	if err := s.cache.SetJSON(ctx, key, live, cacheTTL); err != nil {
		log.Warn().Err(err).Str("base", base).Msg("[currency] cache write failed")
	}
	return live, nil
}

func (s *Service) fetch(ctx context.Context, base string) (*Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/"+base, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates api status %d", resp.StatusCode)
	}

	var body struct {
		Base  string                     `json:"base"`
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, errors.New("rates api returned no rates")
	}
	return &Rates{Base: base, Rates: body.Rates, Source: SourceLive, FetchedAt: s.now().UTC()}, nil
}

// Fallback rebases the built-in USD table onto base.
func Fallback(base string, now time.Time) (*Rates, error) {
	base = Normalize(base)
	perUSD, ok := fallbackUSD[base]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, base)
	}
	out := make(map[string]decimal.Decimal, len(fallbackUSD))
	for code, v := range fallbackUSD {
		out[code] = v.Div(perUSD).Round(6)
	}
	out[base] = decimal.NewFromInt(1)
	return &Rates{Base: base, Rates: out, Source: SourceFallback, FetchedAt: now.UTC()}, nil
}

// Convert turns amount of from into to, rounded to 2 places.
func (s *Service) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*Conversion, error) {
	from, to = Normalize(from), Normalize(to)
	if from == to {
		return &Conversion{Amount: amount, From: from, To: to, Rate: decimal.NewFromInt(1), Result: amount.Round(2), Source: SourceIdentity}, nil
	}
	rates, err := s.Rates(ctx, from)
	if err != nil {
		return nil, err
	}
	rate, ok := rates.Rates[to]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, to)
	}
	return &Conversion{
		Amount: amount,
		From:   from,
		To:     to,
		Rate:   rate,
		Result: amount.Mul(rate).Round(2),
		Source: rates.Source,
	}, nil
}
