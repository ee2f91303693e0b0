package model

type ClientPlayer struct {
	ID    string      `json:"id"`
	Color PlayerColor `json:"color"`
}

// Players are the two seats of a game; an empty ID is an open seat.
type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

func (p Players) seat(color PlayerColor) ClientPlayer {
	if color == PlayerColorWhite {
		return p.White
	}
	return p.Black
}

func (p Players) ColorOf(playerID string) (PlayerColor, bool) {
	if playerID == "" {
		return "", false
	}
	switch playerID {
	case p.White.ID:
		return PlayerColorWhite, true
	case p.Black.ID:
		return PlayerColorBlack, true
	}
	return "", false
}
