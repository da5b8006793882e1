package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/tuanna8687/price-tracker/models"
)

// Scraper is the part of scraper.Service the tracker needs.
type Scraper interface {
	Scrape(ctx context.Context, url string) models.ScrapeResult
}

// RefreshOutcome describes what a refresh did.
type RefreshOutcome struct {
	// Recorded is true when a new record was appended.
	Recorded bool `json:"recorded"`

	// Latest is the newest stored record after the refresh, if any.
	Latest *Record `json:"latest,omitempty"`

	// Product is what the scrape extracted.
	Product models.ScrapedProduct `json:"product"`
}

// Stats summarizes a product's history.
type Stats struct {
	CurrentPrice           float64   `json:"current_price"`
	MinPrice               float64   `json:"min_price"`
	MaxPrice               float64   `json:"max_price"`
	AvgPrice               float64   `json:"avg_price"`
	TotalRecords           int       `json:"total_records"`
	ChangeFromStart        float64   `json:"price_change_from_start"`
	ChangePercentFromStart float64   `json:"price_change_percent_from_start"`
	Currency               string    `json:"currency"`
	LastUpdated            time.Time `json:"last_updated"`
}

// Tracker refreshes product prices and appends them to a Store.
type Tracker struct {
	scraper Scraper
	store   Store
	now     func() time.Time
}

func New(scraper Scraper, store Store) *Tracker {
	return &Tracker{scraper: scraper, store: store, now: time.Now}
}

// Refresh scrapes url and records the price for productID. A failed scrape
// returns an error wrapping the *models.ScrapeError and leaves the history
// untouched. A record is added only for a positive price that differs
// from the latest stored one.
func (t *Tracker) Refresh(ctx context.Context, productID, url string) (RefreshOutcome, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return RefreshOutcome{}, models.NewScrapeError(models.ErrCodeInvalidInput, "product id is required", nil)
	}

	res := t.scraper.Scrape(ctx, url)
	if !res.Success || res.Data == nil {
		code := res.Code
		if code == "" {
			code = models.ErrCodeInternal
		}
		return RefreshOutcome{}, fmt.Errorf("tracker: refresh %s: %w",
			productID, models.NewScrapeError(code, res.Error, nil))
	}

	out := RefreshOutcome{Product: *res.Data}
	latest, found, err := t.store.Latest(ctx, productID)
	if err != nil {
		return RefreshOutcome{}, err
	}
	if found {
		out.Latest = &latest
	}

	if !res.Data.HasPrice() {
		slog.Info("refresh found no price, history unchanged", "product", productID, "url", url)
		return out, nil
	}
	if found && latest.Price == *res.Data.Price {
		return out, nil
	}

	rec := NewRecord(productID, *res.Data, t.now())
	if err := t.store.Add(ctx, rec); err != nil {
		return RefreshOutcome{}, err
	}
	slog.Info("price recorded", "product", productID, "price", rec.Price, "currency", rec.Currency)

	out.Recorded = true
	out.Latest = &rec
	return out, nil
}

// History returns up to limit records of productID, newest first.
func (t *Tracker) History(ctx context.Context, productID string, limit int) ([]Record, error) {
	return t.store.History(ctx, productID, limit)
}

// Stats computes price statistics. The bool is false when the product has
// no history.
func (t *Tracker) Stats(ctx context.Context, productID string) (Stats, bool, error) {
	records, err := t.store.All(ctx, productID)
	if err != nil {
		return Stats{}, false, err
	}
	if len(records) == 0 {
		return Stats{}, false, nil
	}
	return computeStats(records), true, nil
}

// computeStats expects records oldest first.
func computeStats(records []Record) Stats {
	first, last := records[0], records[len(records)-1]
	st := Stats{
		CurrentPrice: last.Price,
		MinPrice:     first.Price,
		MaxPrice:     first.Price,
		TotalRecords: len(records),
		Currency:     last.Currency,
		LastUpdated:  last.RecordedAt,
	}

	var sum float64
	for _, r := range records {
		sum += r.Price
		st.MinPrice = min(st.MinPrice, r.Price)
		st.MaxPrice = max(st.MaxPrice, r.Price)
	}
	st.AvgPrice = math.Round(sum / float64(len(records)))

	st.ChangeFromStart = last.Price - first.Price
	if first.Price != 0 {
		st.ChangePercentFromStart = st.ChangeFromStart / first.Price * 100
	}
	return st
}
