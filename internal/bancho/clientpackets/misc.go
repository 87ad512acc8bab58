package clientpackets

import (
	"fmt"

	"github.com/udisondev/gosu/internal/bancho/packet"
)

// ParseInt parses a payload that is a single int32
// (spectate target, slot index, mods, friend ids, invites, …).
func ParseInt(data []byte) (int32, error) {
	v, err := packet.NewReader(data).ReadInt()
	if err != nil {
		return 0, fmt.Errorf("parsing int payload: %w", err)
	}
	return v, nil
}

// ParseString parses a payload that is a single Bancho string
// (channel join/part names).
func ParseString(data []byte) (string, error) {
	s, err := packet.NewReader(data).ReadString()
	if err != nil {
		return "", fmt.Errorf("parsing string payload: %w", err)
	}
	return s, nil
}

// ParseIntList parses a uint16-counted int32 list
// (stats requests, presence requests).
func ParseIntList(data []byte) ([]int32, error) {
	vals, err := packet.NewReader(data).ReadIntList()
	if err != nil {
		return nil, fmt.Errorf("parsing int list payload: %w", err)
	}
	return vals, nil
}
