package entity

// GameRecord is a user's win/loss/draw tally for one game type.
type GameRecord struct {
	TotalGames int `json:"total_games"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Draws      int `json:"draws"`
}

// User is a registered account with per-game-type records and the ids
// of replays it owns.
type User struct {
	ID           string                 `json:"id"`
	Username     string                 `json:"username"`
	PasswordHash string                 `json:"password_hash"`
	CreatedAt    string                 `json:"created_at"`
	LastLogin    string                 `json:"last_login,omitempty"`
	Records      map[string]*GameRecord `json:"records,omitempty"`
	ReplayIDs    []string               `json:"replay_ids,omitempty"`
}

// Record returns the tally for a game type, creating it on first use.
func (that *User) Record(gameType string) *GameRecord {
	if that.Records == nil {
		that.Records = make(map[string]*GameRecord)
	}
	record, ok := that.Records[gameType]
	if !ok {
		record = &GameRecord{}
		that.Records[gameType] = record
	}
	return record
}

// TotalStats sums the records across all game types.
func (that *User) TotalStats() GameRecord {
	var total GameRecord
	for _, record := range that.Records {
		total.TotalGames += record.TotalGames
		total.Wins += record.Wins
		total.Losses += record.Losses
		total.Draws += record.Draws
	}
	return total
}

// AddReplay - associates a replay id with the user, ignoring duplicates.
func (that *User) AddReplay(replayID string) {
	for _, id := range that.ReplayIDs {
		if id == replayID {
			return
		}
	}
	that.ReplayIDs = append(that.ReplayIDs, replayID)
}
