package domain

import "time"

type OrderPlacedEvent struct {
	OrderID      string     `json:"order_id"`
	CustomerCode string     `json:"customer_code"`
	CustomerName string     `json:"customer_name"`
	Contact      string     `json:"contact"`
	Items        []LineItem `json:"items"`
	Total        int64      `json:"total"`
	Timestamp    time.Time  `json:"timestamp"`
}
