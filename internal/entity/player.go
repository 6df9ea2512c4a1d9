package entity

// Player is one seat in a game session. Color holds the engine stone
// symbol ("B" or "W").
type Player struct {
	ID         string `json:"id"`
	Color      string `json:"color,omitempty"`
	GameID     string `json:"game_id,omitempty"`
	Bot        bool   `json:"bot,omitempty"`
	Difficulty int    `json:"difficulty,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

func (that *Player) IsBot() bool {
	return that.Bot
}
