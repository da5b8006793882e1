package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanna8687/price-tracker/models"
)

// scriptedScraper returns queued results in order.
type scriptedScraper struct {
	mu      sync.Mutex
	results []models.ScrapeResult
	urls    []string
}

func (s *scriptedScraper) Scrape(_ context.Context, url string) models.ScrapeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	res := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return res
}

func product(price float64, original *float64) models.ScrapedProduct {
	return models.ScrapedProduct{
		Title:         "Phone X",
		Price:         models.Float(price),
		OriginalPrice: original,
		Currency:      "VND",
		IsAvailable:   true,
	}
}

func newTestTracker(results ...models.ScrapeResult) (*Tracker, *MemoryStore) {
	store := NewMemoryStore()
	tr := New(&scriptedScraper{results: results}, store)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return tr, store
}

func TestNewRecord_Discount(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("ICT", 7*3600))
	r := NewRecord("p1", product(12_990_000, models.Float(14_990_000)), now)

	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, "p1", r.ProductID)
	assert.Equal(t, float64(12_990_000), r.Price)
	require.NotNil(t, r.DiscountPercentage)
	assert.InDelta(t, 13.342, *r.DiscountPercentage, 0.001)
	require.NotNil(t, r.DiscountAmount())
	assert.Equal(t, float64(2_000_000), *r.DiscountAmount())
	assert.Equal(t, time.UTC, r.RecordedAt.Location())
}

func TestNewRecord_NoOriginalPrice(t *testing.T) {
	p := product(500, nil)
	p.Currency = ""
	r := NewRecord("p1", p, time.Now())

	assert.Nil(t, r.DiscountPercentage)
	assert.Nil(t, r.DiscountAmount())
	assert.Equal(t, "VND", r.Currency)
}

func TestNewRecord_OriginalBelowPrice(t *testing.T) {
	r := NewRecord("p1", product(12_990_000, models.Float(10)), time.Now())

	assert.Nil(t, r.DiscountPercentage)
	assert.Nil(t, r.DiscountAmount())
}

func TestRecord_JSONIncludesDiscountAmount(t *testing.T) {
	r := NewRecord("p1", product(90, models.Float(100)), time.Now())

	raw, err := json.Marshal(r)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(10), body["discount_amount"])
	assert.Equal(t, float64(90), body["price"])
	assert.Equal(t, "p1", body["product_id"])

	raw, err = json.Marshal(NewRecord("p1", product(90, nil), time.Now()))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "discount_amount")
}

func TestRefresh_RecordsOnlyChanges(t *testing.T) {
	tr, store := newTestTracker(
		models.Succeeded(product(100, nil)),
		models.Succeeded(product(100, nil)),
		models.Succeeded(product(90, models.Float(100))),
	)
	ctx := context.Background()

	out, err := tr.Refresh(ctx, "p1", "https://didongviet.vn/p")
	require.NoError(t, err)
	assert.True(t, out.Recorded)
	require.NotNil(t, out.Latest)
	assert.Equal(t, float64(100), out.Latest.Price)

	out, err = tr.Refresh(ctx, "p1", "https://didongviet.vn/p")
	require.NoError(t, err)
	assert.False(t, out.Recorded, "same price must not be recorded")
	require.NotNil(t, out.Latest)
	assert.Equal(t, float64(100), out.Latest.Price)

	out, err = tr.Refresh(ctx, "p1", "https://didongviet.vn/p")
	require.NoError(t, err)
	assert.True(t, out.Recorded)

	all, err := store.All(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, float64(100), all[0].Price)
	assert.Equal(t, float64(90), all[1].Price)
}

func TestRefresh_SkipsMissingOrZeroPrice(t *testing.T) {
	noPrice := product(0, nil)
	noPrice.Price = nil

	tr, store := newTestTracker(
		models.Succeeded(noPrice),
		models.Succeeded(product(0, nil)),
	)
	ctx := context.Background()

	for range 2 {
		out, err := tr.Refresh(ctx, "p1", "https://example.com/p")
		require.NoError(t, err)
		assert.False(t, out.Recorded)
		assert.Nil(t, out.Latest)
	}

	all, err := store.All(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRefresh_ScrapeFailureKeepsHistory(t *testing.T) {
	tr, store := newTestTracker(
		models.Succeeded(product(100, nil)),
		models.Failed(models.NewScrapeError(models.ErrCodeTimeout, "navigation timed out", context.DeadlineExceeded)),
	)
	ctx := context.Background()

	_, err := tr.Refresh(ctx, "p1", "https://fptshop.com.vn/p")
	require.NoError(t, err)

	_, err = tr.Refresh(ctx, "p1", "https://fptshop.com.vn/p")
	require.Error(t, err)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTimeout, se.Code)
	assert.Contains(t, err.Error(), "navigation timed out")

	latest, found, err := store.Latest(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(100), latest.Price)
}

func TestRefresh_RequiresProductID(t *testing.T) {
	tr, _ := newTestTracker(models.Succeeded(product(100, nil)))

	_, err := tr.Refresh(context.Background(), "  ", "https://example.com")

	var se *models.ScrapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, models.ErrCodeInvalidInput, se.Code)
}

func TestStats(t *testing.T) {
	tr, _ := newTestTracker(
		models.Succeeded(product(100, nil)),
		models.Succeeded(product(80, nil)),
		models.Succeeded(product(125, nil)),
		models.Succeeded(product(120, nil)),
	)
	ctx := context.Background()

	_, found, err := tr.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, found)

	for range 4 {
		_, err := tr.Refresh(ctx, "p1", "https://example.com/p")
		require.NoError(t, err)
	}

	st, found, err := tr.Stats(ctx, "p1")
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, float64(120), st.CurrentPrice)
	assert.Equal(t, float64(80), st.MinPrice)
	assert.Equal(t, float64(125), st.MaxPrice)
	assert.Equal(t, float64(106), st.AvgPrice) // 106.25 rounded
	assert.Equal(t, 4, st.TotalRecords)
	assert.Equal(t, float64(20), st.ChangeFromStart)
	assert.InDelta(t, 20.0, st.ChangePercentFromStart, 1e-9)
	assert.Equal(t, "VND", st.Currency)
	assert.Equal(t, time.Date(2026, 1, 1, 4, 0, 0, 0, time.UTC), st.LastUpdated)
}

func TestMemoryStore_History(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := range 5 {
		r := NewRecord("p1", product(float64(100+i), nil), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Add(ctx, r))
	}
	require.NoError(t, store.Add(ctx, NewRecord("p2", product(1, nil), base)))

	got, err := store.History(ctx, "p1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, float64(104), got[0].Price)
	assert.Equal(t, float64(103), got[1].Price)

	got, err = store.History(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = store.History(ctx, "missing", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	all, err := store.All(ctx, "p1")
	require.NoError(t, err)
	all[0].Price = -1
	again, err := store.All(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, float64(100), again[0].Price, "All must return a copy")
}
