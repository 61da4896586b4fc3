package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// LineItem mirrors one entry of the browser cart payload. Keys the cart
// sends that are not listed here (such as "total") are ignored.
type LineItem struct {
	ProductID string `json:"id"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"qty"`
	Price     int64  `json:"price"`
}

func (i LineItem) Subtotal() int64 {
	return int64(i.Quantity) * i.Price
}

// PlaceholderItem stands in for order details that could not be decoded.
var PlaceholderItem = LineItem{
	ProductID: "unknown",
	Name:      "Состав заказа недоступен",
}

type Order struct {
	ID           string      `json:"id"`
	CustomerCode string      `json:"customer_code"`
	Items        []LineItem  `json:"items"`
	Status       OrderStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (o Order) Total() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Subtotal()
	}
	return total
}

var ErrNoItems = errors.New("order has no items")

// EncodeItems serializes line items into the text stored in order_details.
func EncodeItems(items []LineItem) (string, error) {
	if len(items) == 0 {
		return "", ErrNoItems
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode order details: %w", err)
	}
	return string(data), nil
}

// DecodeItems parses stored order_details. When the payload is unreadable the
// returned slice holds a single PlaceholderItem and the error explains why, so
// callers can log it and keep going.
func DecodeItems(raw string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []LineItem{PlaceholderItem}, fmt.Errorf("decode order details: %w", err)
	}
	if len(items) == 0 {
		return []LineItem{PlaceholderItem}, ErrNoItems
	}
	return items, nil
}
