package model

// Settings are chosen when a game is created and stored with it.
type Settings struct {
	// LocalPlay lets a single client move for both colours.
	LocalPlay    bool `json:"localPlay"`
	CriticalHits bool `json:"criticalHits"`
	Misses       bool `json:"misses"`
}

func DefaultSettings() Settings {
	return Settings{}
}
