package models

import "time"

// MPriceTick is one relayed price update as kept by the price store.
type MPriceTick struct {
	Symbol     string    `json:"symbol"`
	Price      string    `json:"price"`
	ReceivedAt time.Time `json:"received_at"`
}
