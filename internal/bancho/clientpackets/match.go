package clientpackets

import (
	"fmt"

	"github.com/udisondev/gosu/internal/bancho/packet"
)

// ParseMatchData parses a full match blob (CREATE_MATCH, MATCH_CHANGE_SETTINGS).
func ParseMatchData(data []byte) (packet.MatchData, error) {
	r := packet.NewReader(data)
	m, err := packet.ReadMatchData(r)
	if err != nil {
		return m, fmt.Errorf("parsing match data: %w", err)
	}
	return m, nil
}

// JoinMatch is the client's request to enter a match (opcode 32).
type JoinMatch struct {
	MatchID  int32
	Password string
}

// ParseJoinMatch parses a JoinMatch payload.
func ParseJoinMatch(data []byte) (JoinMatch, error) {
	r := packet.NewReader(data)
	var p JoinMatch
	var err error

	if p.MatchID, err = r.ReadInt(); err != nil {
		return p, fmt.Errorf("parsing match id: %w", err)
	}
	if p.Password, err = r.ReadString(); err != nil {
		return p, fmt.Errorf("parsing password: %w", err)
	}
	return p, nil
}

// ParseScoreFrame parses an in-play score update (opcode 47).
func ParseScoreFrame(data []byte) (packet.ScoreFrame, error) {
	r := packet.NewReader(data)
	sf, err := packet.ReadScoreFrame(r)
	if err != nil {
		return sf, fmt.Errorf("parsing score frame: %w", err)
	}
	return sf, nil
}
