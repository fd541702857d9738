package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"elvalg/config"
	"elvalg/internal/logger"
	"elvalg/internal/pricezone"

	"cloud.google.com/go/civil"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// ErrNoPrices means the feed has not published prices for the requested day.
var ErrNoPrices = errors.New("no prices published for date")

type HourPrice struct {
	NOKPerKWh float64   `json:"NOK_per_kWh"`
	EURPerKWh float64   `json:"EUR_per_kWh"`
	Exchange  float64   `json:"EXR"`
	Start     time.Time `json:"time_start"`
	End       time.Time `json:"time_end"`
}

type PriceFeed interface {
	DayPrices(ctx context.Context, zone pricezone.Zone, date civil.Date) ([]HourPrice, error)
}

// HTTPPriceFeed reads day-ahead spot prices laid out as
// <base>/<yyyy>/<mm>-<dd>_<zone>.json.
type HTTPPriceFeed struct {
	url string
	log logger.Logger
}

func NewPriceFeed(config config.Config) *HTTPPriceFeed {
	return &HTTPPriceFeed{
		url: strings.TrimRight(config.PriceFeedURL, "/"),
		log: logger.New("priceFeed"),
	}
}

func (p *HTTPPriceFeed) DayPrices(ctx context.Context, zone pricezone.Zone, date civil.Date) ([]HourPrice, error) {
	log := p.log.Function("DayPrices")

	if p.url == "" {
		return nil, ErrNotConfigured
	}
	if !zone.Resolved() {
		return nil, log.Error("unknown price zone", "zone", string(zone))
	}

	url := fmt.Sprintf("%s/%04d/%02d-%02d_%s.json", p.url, date.Year, int(date.Month), date.Day, zone)

	body, _, err := do(ctx, newAgent(ctx, fiber.Get(url)))
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == fiber.StatusNotFound {
		return nil, ErrNoPrices
	}
	if err != nil {
		return nil, log.Err("failed to fetch prices", err, "zone", string(zone), "date", date.String())
	}

	var prices []HourPrice
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, log.Err("failed to decode prices", err, "zone", string(zone), "date", date.String())
	}

	return prices, nil
}
