package bancho

// SlotStatus is the state of one multiplayer slot.
type SlotStatus uint8

const (
	SlotOpen     SlotStatus = 1 << 0
	SlotLocked   SlotStatus = 1 << 1
	SlotNotReady SlotStatus = 1 << 2
	SlotReady    SlotStatus = 1 << 3
	SlotNoMap    SlotStatus = 1 << 4
	SlotPlaying  SlotStatus = 1 << 5
	SlotComplete SlotStatus = 1 << 6
	SlotQuit     SlotStatus = 1 << 7

	// SlotHasPlayer masks every status that carries a player.
	SlotHasPlayer = SlotNotReady | SlotReady | SlotNoMap | SlotPlaying | SlotComplete
)

// Team is a slot's team assignment.
type Team uint8

const (
	TeamNeutral Team = iota
	TeamBlue
	TeamRed
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "Blue"
	case TeamRed:
		return "Red"
	default:
		return "Neutral"
	}
}

// Slot is one of a match's sixteen player slots.
type Slot struct {
	Status SlotStatus
	Team   Team
	// Mods are per-slot mods, meaningful only under freemods.
	Mods   Mods
	Player *Player
	// Loaded is set when the client confirms map load during play.
	Loaded bool
	// Skipped is set on an intro skip request during play.
	Skipped bool
}

// HasPlayer reports whether the slot holds a player.
func (s *Slot) HasPlayer() bool {
	return s.Status&SlotHasPlayer != 0
}

// Empty reports whether the slot can accept a player.
func (s *Slot) Empty() bool {
	return s.Status == SlotOpen
}

// Reset returns the slot to the given vacant status.
func (s *Slot) Reset(status SlotStatus) {
	*s = Slot{Status: status}
}

// CopyFrom moves another slot's occupant into this slot.
func (s *Slot) CopyFrom(other *Slot) {
	s.Status = other.Status
	s.Team = other.Team
	s.Mods = other.Mods
	s.Player = other.Player
}
