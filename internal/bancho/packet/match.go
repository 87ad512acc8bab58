package packet

import "fmt"

// MaxSlots is the number of slots in a multiplayer match.
const MaxSlots = 16

// SlotStatusHasPlayer masks the slot statuses that carry a player
// (not_ready | ready | no_map | playing | complete).
const SlotStatusHasPlayer = 0x7C

// MatchData is the wire form of a multiplayer match, shared by the
// UPDATE_MATCH / NEW_MATCH server packets and the CREATE_MATCH /
// MATCH_CHANGE_SETTINGS client packets.
type MatchData struct {
	ID         uint16
	InProgress bool
	Mods       int32
	Name       string
	Password   string

	MapName string
	MapID   int32
	MapMD5  string

	SlotStatuses [MaxSlots]uint8
	SlotTeams    [MaxSlots]uint8
	SlotIDs      [MaxSlots]int32 // only slots with SlotStatusHasPlayer are on the wire

	HostID       int32
	Mode         uint8
	WinCondition uint8
	TeamType     uint8
	Freemods     bool
	SlotMods     [MaxSlots]int32 // on the wire only when Freemods is set
	Seed         int32
}

// ReadMatchData decodes a match from r.
func ReadMatchData(r *Reader) (MatchData, error) {
	var m MatchData
	var err error

	if m.ID, err = r.ReadUShort(); err != nil {
		return m, fmt.Errorf("match id: %w", err)
	}
	inProgress, err := r.ReadByte()
	if err != nil {
		return m, fmt.Errorf("match in_progress: %w", err)
	}
	m.InProgress = inProgress != 0
	if _, err = r.ReadByte(); err != nil { // match type, unused
		return m, fmt.Errorf("match type: %w", err)
	}
	if m.Mods, err = r.ReadInt(); err != nil {
		return m, fmt.Errorf("match mods: %w", err)
	}
	if m.Name, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match name: %w", err)
	}
	if m.Password, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match password: %w", err)
	}
	if m.MapName, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match map name: %w", err)
	}
	if m.MapID, err = r.ReadInt(); err != nil {
		return m, fmt.Errorf("match map id: %w", err)
	}
	if m.MapMD5, err = r.ReadString(); err != nil {
		return m, fmt.Errorf("match map md5: %w", err)
	}

	for i := range MaxSlots {
		if m.SlotStatuses[i], err = r.ReadByte(); err != nil {
			return m, fmt.Errorf("slot %d status: %w", i, err)
		}
	}
	for i := range MaxSlots {
		if m.SlotTeams[i], err = r.ReadByte(); err != nil {
			return m, fmt.Errorf("slot %d team: %w", i, err)
		}
	}
	for i := range MaxSlots {
		if m.SlotStatuses[i]&SlotStatusHasPlayer == 0 {
			continue
		}
		if m.SlotIDs[i], err = r.ReadInt(); err != nil {
			return m, fmt.Errorf("slot %d user id: %w", i, err)
		}
	}

	if m.HostID, err = r.ReadInt(); err != nil {
		return m, fmt.Errorf("match host id: %w", err)
	}
	if m.Mode, err = r.ReadByte(); err != nil {
		return m, fmt.Errorf("match mode: %w", err)
	}
	if m.WinCondition, err = r.ReadByte(); err != nil {
		return m, fmt.Errorf("match win condition: %w", err)
	}
	if m.TeamType, err = r.ReadByte(); err != nil {
		return m, fmt.Errorf("match team type: %w", err)
	}
	freemods, err := r.ReadByte()
	if err != nil {
		return m, fmt.Errorf("match freemods: %w", err)
	}
	m.Freemods = freemods != 0
	if m.Freemods {
		for i := range MaxSlots {
			if m.SlotMods[i], err = r.ReadInt(); err != nil {
				return m, fmt.Errorf("slot %d mods: %w", i, err)
			}
		}
	}
	if m.Seed, err = r.ReadInt(); err != nil {
		return m, fmt.Errorf("match seed: %w", err)
	}

	return m, nil
}

// Write encodes the match into w.
func (m *MatchData) Write(w *Writer) {
	w.WriteUShort(m.ID)
	w.WriteBool(m.InProgress)
	_ = w.WriteByte(0) // match type
	w.WriteInt(m.Mods)
	w.WriteString(m.Name)
	w.WriteString(m.Password)
	w.WriteString(m.MapName)
	w.WriteInt(m.MapID)
	w.WriteString(m.MapMD5)

	for i := range MaxSlots {
		_ = w.WriteByte(m.SlotStatuses[i])
	}
	for i := range MaxSlots {
		_ = w.WriteByte(m.SlotTeams[i])
	}
	for i := range MaxSlots {
		if m.SlotStatuses[i]&SlotStatusHasPlayer != 0 {
			w.WriteInt(m.SlotIDs[i])
		}
	}

	w.WriteInt(m.HostID)
	_ = w.WriteByte(m.Mode)
	_ = w.WriteByte(m.WinCondition)
	_ = w.WriteByte(m.TeamType)
	w.WriteBool(m.Freemods)
	if m.Freemods {
		for i := range MaxSlots {
			w.WriteInt(m.SlotMods[i])
		}
	}
	w.WriteInt(m.Seed)
}
