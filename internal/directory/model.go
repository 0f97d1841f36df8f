package directory

import "strings"

// Artisan is one provider profile in the directory. Price is free text as
// the user typed it; "0" means the service is free and is rendered
// "Gratuit". JobsDone counts completed engagements and survives profile
// updates.
type Artisan struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Job      string `json:"job"`
	Level    string `json:"level"`
	Price    string `json:"price"`
	JobsDone int    `json:"jobs_done"`
}

// PriceDisplay renders the price, mapping the "0" sentinel to "Gratuit".
func (a Artisan) PriceDisplay() string {
	if strings.TrimSpace(a.Price) == "0" {
		return "Gratuit"
	}
	return a.Price
}

// Trades splits the comma-separated job field into trimmed entries.
func (a Artisan) Trades() []string {
	parts := strings.Split(a.Job, ",")
	trades := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			trades = append(trades, t)
		}
	}
	return trades
}

// HasTrade reports whether the artisan lists the trade, case-insensitively.
func (a Artisan) HasTrade(trade string) bool {
	want := strings.ToLower(strings.TrimSpace(trade))
	if want == "" {
		return false
	}
	for _, t := range a.Trades() {
		if strings.ToLower(t) == want {
			return true
		}
	}
	return false
}

// Stats is the aggregate view over the whole directory.
type Stats struct {
	Artisans     int `json:"artisans"`
	JobsDone     int `json:"jobs_done"`
	RatingsGiven int `json:"ratings_given"`
}
