package models

import "time"

type DashboardCounts struct {
	Orders   int64   `json:"orders"`
	Users    int64   `json:"users"`
	Products int64   `json:"products"`
	Revenue  float64 `json:"revenue"`
}

type MonthlySales struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type RecentOrder struct {
	ID          string       `json:"id"`
	User        *UserSummary `json:"user,omitempty"`
	TotalAmount float64      `json:"totalAmount"`
	Status      OrderStatus  `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type DashboardStats struct {
	Counts        DashboardCounts       `json:"counts"`
	OrderByStatus map[OrderStatus]int64 `json:"orderByStatus"`
	RecentOrders  []RecentOrder         `json:"recentOrders"`
	MonthlySales  []MonthlySales        `json:"monthlySales"`
}
