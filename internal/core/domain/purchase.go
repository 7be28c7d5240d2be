package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the human-readable wall-clock snapshot stored on each
// purchase record.
const TimestampLayout = "2006-01-02 15:04:05"

// PurchaseRecord is one line of purchase history: a single product bought in
// some quantity during one purchase event. Records are immutable once created.
//
// The JSON field names double as the persisted storage format, so they must
// stay stable across releases.
type PurchaseRecord struct {
	ID             string          `json:"id"`
	ShopName       string          `json:"shopName,omitempty"`
	Name           string          `json:"name"`
	Icon           string          `json:"icon"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalItemPrice decimal.Decimal `json:"totalItemPrice"`
	Timestamp      string          `json:"timestamp"`
}

// NewPurchaseRecord captures a product purchase at the given wall-clock time.
// The id embeds the product id for traceability and a UUID for uniqueness.
func NewPurchaseRecord(shopName string, p Product, quantity int, now time.Time) PurchaseRecord {
	return PurchaseRecord{
		ID:             fmt.Sprintf("%s-%s", p.ID, uuid.New()),
		ShopName:       shopName,
		Name:           p.Name,
		Icon:           p.Icon,
		Quantity:       quantity,
		UnitPrice:      p.UnitPrice,
		TotalItemPrice: p.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Timestamp:      now.Format(TimestampLayout),
	}
}

// EncodeHistory serializes purchase history (newest first) for the key-value store.
func EncodeHistory(history []PurchaseRecord) ([]byte, error) {
	if history == nil {
		history = []PurchaseRecord{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("encode purchase history: %w", err)
	}
	return data, nil
}

// DecodeHistory parses the persisted purchase history. Order is preserved.
func DecodeHistory(data []byte) ([]PurchaseRecord, error) {
	var history []PurchaseRecord
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("decode purchase history: %w", err)
	}
	return history, nil
}
