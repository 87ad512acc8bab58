package clientpackets

import (
	"fmt"

	"github.com/udisondev/gosu/internal/bancho/packet"
)

// ChangeAction is the client's status update (opcode 0).
type ChangeAction struct {
	Action   uint8
	InfoText string
	MapMD5   string
	Mods     uint32
	Mode     uint8
	MapID    int32
}

// ParseChangeAction parses a ChangeAction payload.
func ParseChangeAction(data []byte) (ChangeAction, error) {
	r := packet.NewReader(data)
	var p ChangeAction
	var err error

	if p.Action, err = r.ReadByte(); err != nil {
		return p, fmt.Errorf("parsing action: %w", err)
	}
	if p.InfoText, err = r.ReadString(); err != nil {
		return p, fmt.Errorf("parsing info text: %w", err)
	}
	if p.MapMD5, err = r.ReadString(); err != nil {
		return p, fmt.Errorf("parsing map md5: %w", err)
	}
	if p.Mods, err = r.ReadUInt(); err != nil {
		return p, fmt.Errorf("parsing mods: %w", err)
	}
	if p.Mode, err = r.ReadByte(); err != nil {
		return p, fmt.Errorf("parsing mode: %w", err)
	}
	if p.MapID, err = r.ReadInt(); err != nil {
		return p, fmt.Errorf("parsing map id: %w", err)
	}
	return p, nil
}
