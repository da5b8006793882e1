// Package tracker keeps a price history per product and refreshes it from
// scrapes.
package tracker

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tuanna8687/price-tracker/models"
)

// Record is one observed price of a product.
type Record struct {
	ID                 uuid.UUID `json:"id"`
	ProductID          string    `json:"product_id"`
	Price              float64   `json:"price"`
	OriginalPrice      *float64  `json:"original_price,omitempty"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty"`
	Currency           string    `json:"currency"`
	IsAvailable        bool      `json:"is_available"`
	RecordedAt         time.Time `json:"recorded_at"`
}

// NewRecord builds a record from a scraped product. The caller must check
// p.HasPrice first; a missing price is recorded as zero.
func NewRecord(productID string, p models.ScrapedProduct, now time.Time) Record {
	r := Record{
		ID:            uuid.New(),
		ProductID:     productID,
		OriginalPrice: p.OriginalPrice,
		Currency:      p.Currency,
		IsAvailable:   p.IsAvailable,
		RecordedAt:    now.UTC(),
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if r.Currency == "" {
		r.Currency = models.DefaultCurrency
	}
	r.DiscountPercentage = discount(r.Price, p.OriginalPrice)
	return r
}

// discount is the percentage off the original price, in [0, 100]. It is nil
// when either price is missing or the original is below the price, which
// happens when a badge such as "-10%" is read as the original price.
func discount(price float64, original *float64) *float64 {
	if !hasDiscount(price, original) {
		return nil
	}
	return models.Float((*original - price) / *original * 100)
}

func hasDiscount(price float64, original *float64) bool {
	return original != nil && price > 0 && *original >= price
}

// DiscountAmount is OriginalPrice minus Price, or nil when there is no
// usable original price.
func (r Record) DiscountAmount() *float64 {
	if !hasDiscount(r.Price, r.OriginalPrice) {
		return nil
	}
	return models.Float(*r.OriginalPrice - r.Price)
}

// MarshalJSON adds the derived discount_amount field.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		DiscountAmount *float64 `json:"discount_amount,omitempty"`
	}{plain(r), r.DiscountAmount()})
}
