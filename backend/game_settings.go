package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

// GameSettings is who sits on each seat. Board geometry and the win length
// are fixed by the game, so the seats are the whole configuration.
type GameSettings struct {
	WhiteType PlayerType `json:"-"`
	BlackType PlayerType `json:"-"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		WhiteType: PlayerHuman,
		BlackType: PlayerAI,
	}
}

func (s GameSettings) PlayerTypeFor(player PlayerColor) PlayerType {
	if player == PlayerWhite {
		return s.WhiteType
	}
	return s.BlackType
}
