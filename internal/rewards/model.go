package rewards

// Reward is the outcome of crediting a wallet for one completed analysis.
type Reward struct {
	Earned    int64 `json:"earned"`
	Total     int64 `json:"total"`
	IsNewUser bool  `json:"isNewUser"`
}
