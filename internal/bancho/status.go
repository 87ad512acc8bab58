package bancho

// Action is the client's current activity.
type Action uint8

const (
	ActionIdle Action = iota
	ActionAfk
	ActionPlaying
	ActionEditing
	ActionModding
	ActionMultiplayer
	ActionWatching
	ActionUnknown
	ActionTesting
	ActionSubmitting
	ActionPaused
	ActionLobby
	ActionMultiplaying
	ActionOsuDirect
)

// Mode is a gameplay mode.
type Mode uint8

const (
	ModeStandard Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania

	// NumModes bounds per-mode stats arrays.
	NumModes = 4
)

var modeNames = [NumModes]string{"osu!", "taiko", "catch", "mania"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Status is the presence state broadcast in USER_STATS frames.
type Status struct {
	Action   Action
	InfoText string
	MapMD5   string
	Mods     Mods
	Mode     Mode
	MapID    int32
}

// ModeStats is one row of the stats table.
type ModeStats struct {
	TotalScore  int64
	RankedScore int64
	PP          int16
	Plays       int32
	Accuracy    float32 // 0..100
	MaxCombo    int32
	// Rank is the global leaderboard position, 0 when unranked.
	Rank int32
}
