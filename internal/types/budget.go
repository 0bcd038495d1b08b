package types

// DayCost is the summed activity cost of a single day.
type DayCost struct {
	DayNumber int     `json:"day_number"`
	Total     float64 `json:"total"`
}

// BudgetBreakdown is derived from the current activity set and never stored.
type BudgetBreakdown struct {
	Accommodation float64   `json:"accommodation"`
	Food          float64   `json:"food"`
	Activities    float64   `json:"activities"`
	Transport     float64   `json:"transport"`
	Other         float64   `json:"other"`
	Total         float64   `json:"total"`
	PerDay        []DayCost `json:"per_day"`
	Currency      string    `json:"currency"`
	TotalBudget   *float64  `json:"total_budget,omitempty"`
	OverBudget    bool      `json:"over_budget"`
	Overage       float64   `json:"overage"`
	Remaining     *float64  `json:"remaining,omitempty"`
}
