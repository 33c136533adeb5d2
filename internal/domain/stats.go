package domain

// AdminStats are collection counts for the admin dashboard.
type AdminStats struct {
	Users        int `json:"users"`
	PremiumUsers int `json:"premiumUsers"`
	Lessons      int `json:"lessons"`
	Reports      int `json:"reports"`
	Payments     int `json:"payments"`
}
