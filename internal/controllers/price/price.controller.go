package priceController

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"elvalg/internal/clients"
	"elvalg/internal/controllers"
	"elvalg/internal/database"
	"elvalg/internal/logger"
	"elvalg/internal/pricezone"
	"elvalg/internal/utils"

	"cloud.google.com/go/civil"
)

type PriceController struct {
	feed     clients.PriceFeed
	cache    database.CacheClient
	cacheTTL time.Duration
	dates    *utils.DateValidator
	location *time.Location
	now      func() time.Time
	log      logger.Logger
}

func New(
	feed clients.PriceFeed,
	cache database.CacheClient,
	cacheTTL time.Duration,
	location *time.Location,
) *PriceController {
	if location == nil {
		location = time.UTC
	}
	return &PriceController{
		feed:     feed,
		cache:    cache,
		cacheTTL: cacheTTL,
		dates:    utils.NewDateValidator(),
		location: location,
		now:      time.Now,
		log:      logger.New("PriceController"),
	}
}

type ZoneInfo struct {
	PostalCode string `json:"postalCode,omitempty"`
	Zone       string `json:"zone"`
	Label      string `json:"label"`
	Resolved   bool   `json:"resolved"`
}

type DaySummary struct {
	Zone    string              `json:"zone"`
	Label   string              `json:"label"`
	Date    civil.Date          `json:"date"`
	Min     float64             `json:"minNokPerKwh"`
	Max     float64             `json:"maxNokPerKwh"`
	Average float64             `json:"averageNokPerKwh"`
	Hours   []clients.HourPrice `json:"hours"`
}

func (pc *PriceController) Zones() []ZoneInfo {
	zones := pricezone.Zones()
	infos := make([]ZoneInfo, 0, len(zones))
	for _, zone := range zones {
		infos = append(infos, ZoneInfo{Zone: string(zone), Label: zone.Label(), Resolved: true})
	}
	return infos
}

// Lookup resolves a postal code. Malformed and unknown codes are not errors;
// the result reports Resolved false and the caller asks the visitor for a zone.
func (pc *PriceController) Lookup(postalCode string) *ZoneInfo {
	info := &ZoneInfo{}
	normalized, ok := pricezone.Normalize(postalCode)
	if !ok {
		return info
	}

	zone := pricezone.Resolve(normalized)
	info.PostalCode = normalized
	info.Zone = string(zone)
	info.Label = zone.Label()
	info.Resolved = zone.Resolved()
	return info
}

// DayPrices returns the hourly spot prices of one zone and day. An empty date
// means today in the service timezone.
func (pc *PriceController) DayPrices(ctx context.Context, zoneParam, dateParam string) (*DaySummary, error) {
	log := pc.log.Function("DayPrices")

	zone, ok := pricezone.ParseZone(zoneParam)
	if !ok {
		return nil, controllers.Invalid("zone", "must be one of NO1-NO5")
	}

	date := civil.DateOf(pc.now().In(pc.location))
	if strings.TrimSpace(dateParam) != "" {
		parsed, err := pc.dates.ParseDate(dateParam)
		if err != nil {
			return nil, controllers.Invalid("date", err.Error())
		}
		date = parsed
	}

	key := fmt.Sprintf("prices:%s:%s", zone, date)

	var summary DaySummary
	found, err := database.NewCacheBuilder(pc.cache, key).WithContext(ctx).Get(&summary)
	if err != nil {
		log.Warn("failed to read cached prices", "key", key, "error", err)
	}
	if found {
		return &summary, nil
	}

	hours, err := pc.feed.DayPrices(ctx, zone, date)
	if err != nil {
		return nil, err
	}

	summary = summarize(zone, date, hours)

	if err := database.NewCacheBuilder(pc.cache, key).
		WithContext(ctx).
		WithStruct(summary).
		WithTTL(pc.cacheTTL).
		Set(); err != nil {
		log.Warn("failed to cache prices", "key", key, "error", err)
	}

	return &summary, nil
}

func summarize(zone pricezone.Zone, date civil.Date, hours []clients.HourPrice) DaySummary {
	summary := DaySummary{
		Zone:  string(zone),
		Label: zone.Label(),
		Date:  date,
		Hours: hours,
	}
	if len(hours) == 0 {
		return summary
	}

	summary.Min = math.Inf(1)
	summary.Max = math.Inf(-1)
	total := 0.0
	for _, hour := range hours {
		summary.Min = math.Min(summary.Min, hour.NOKPerKWh)
		summary.Max = math.Max(summary.Max, hour.NOKPerKWh)
		total += hour.NOKPerKWh
	}
	summary.Average = total / float64(len(hours))

	return summary
}
