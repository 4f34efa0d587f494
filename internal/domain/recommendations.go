package domain

// CaptainSuggestion is a ranked captain candidate with its applied reasoning.
// Confidence is clamped to [0,100] after all additive adjustments.
type CaptainSuggestion struct {
	Player          PlayerSnapshot `json:"player"`
	Confidence      int            `json:"confidence"`
	Reasoning       []string       `json:"reasoning"`
	ProjectedPoints int            `json:"projected_points"`
	FormFactor      float64        `json:"form_factor"`
	VenueBias       float64        `json:"venue_bias"`
	WeatherImpact   int            `json:"weather_impact"`
}

// CashCowAnalysis describes a low-price player expected to generate value
// before being traded out. SellWeek is the round index of the maximum
// projected price within the simulated horizon (earliest round on ties).
type CashCowAnalysis struct {
	Player              PlayerSnapshot    `json:"player"`
	Generated           int               `json:"generated"`
	ProjectedGeneration int               `json:"projected_generation"`
	SellWeek            int               `json:"sell_week"`
	Confidence          int               `json:"confidence"`
	PriceTrajectory     []PriceProjection `json:"price_trajectory"`
}

// RiskAssessment is a weighted composite of four independently clamped
// sub-scores, each in [0,100].
type RiskAssessment struct {
	PlayerID  string   `json:"player_id"`
	Overall   int      `json:"overall"`
	Injury    int      `json:"injury_risk"`
	Role      int      `json:"role_risk"`
	Form      int      `json:"form_risk"`
	Price     int      `json:"price_risk"`
	Reasoning []string `json:"reasoning"`
}

// TeamStructure aggregates per-position counts and price-tier counts over a roster.
type TeamStructure struct {
	PositionCounts map[Position]int `json:"position_counts"`
	PremiumCount   int              `json:"premium_count"`
	RookieCount    int              `json:"rookie_count"`
	TotalValue     int              `json:"total_value"`
	RosterSize     int              `json:"roster_size"`
}

// WeaknessType identifies a detected team-structure weakness.
type WeaknessType string

const (
	WeaknessPositionImbalance WeaknessType = "POSITION_IMBALANCE"
	WeaknessPremiumLight      WeaknessType = "PREMIUM_LIGHT"
	WeaknessRookieHeavy       WeaknessType = "ROOKIE_HEAVY"
)

// TeamWeakness always carries a severity (unbounded positive, larger = worse)
// and a human-readable recommendation.
type TeamWeakness struct {
	Type           WeaknessType `json:"type"`
	Position       Position     `json:"position,omitempty"`
	Severity       float64      `json:"severity"`
	Recommendation string       `json:"recommendation"`
}

// UpgradePathway is a candidate trade from one held player to a pool player.
// Cost and PointsImprovement may both be negative; callers filter.
type UpgradePathway struct {
	From              PlayerSnapshot `json:"from"`
	To                PlayerSnapshot `json:"to"`
	Cost              int            `json:"cost"`
	PointsImprovement float64        `json:"points_improvement"`
	Confidence        int            `json:"confidence"`
}
