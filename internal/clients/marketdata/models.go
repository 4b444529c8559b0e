package marketdata

import "time"

// DailyClose is one trading day's closing price for a ticker
type DailyClose struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Quote is a minimal current-price snapshot
type Quote struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}
