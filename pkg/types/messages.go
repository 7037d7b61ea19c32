package types

import "encoding/json"

// Hook -> Server
// GameDTO (sent repeatedly while a lobby or match is live):
//   id: number
//   teamOne: Participant[] | null
//   teamTwo: Participant[] | null
//
// EndOfGameStats (sent once when the post-game screen opens):
//   gameId: number
//   gameMode: string
//   gameType: string
//   gameLength: number // seconds
//   timeStamp: RFC3339
//   teamPlayerStats: PlayerStats[]
//   otherTeamPlayerStats: PlayerStats[]
//
// Participant:
//   kind: "player" | "bot" | "obfuscated"
//   a null entry is an empty slot

const (
	TypeGameDTO        = "GameDTO"
	TypeEndOfGameStats = "EndOfGameStats"
)

// Envelope is one frame on the hook connection. Body is decoded by whoever
// subscribes to Type.
type Envelope struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

func NewEnvelope(typ string, body any) (Envelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: typ, Body: raw}, nil
}
