package usecase

import "time"

// Published after a checkout commits.
type PlacedMsg struct {
	OrderID  int64        `json:"orderId"`
	Total    float64      `json:"total"`
	Items    []PlacedItem `json:"items"`
	PlacedAt time.Time    `json:"placedAt"`
}

type PlacedItem struct {
	MealID int `json:"mealId"`
	Qty    int `json:"qty"`
}
