package serverpackets

import (
	"github.com/udisondev/gosu/internal/bancho/packet"
)

// frame builds a single complete frame for packet id via fn.
func frame(id uint16, fn func(w *packet.Writer)) []byte {
	w := packet.NewWriter(64)
	w.Begin(id)
	if fn != nil {
		fn(w)
	}
	w.Finish()
	return w.Bytes()
}

// UserID reports the login result: the user id on success, or a negative
// failure code (-1 auth, -2 old client, -3/-4 banned, -5 error,
// -6 needs supporter, -7 password reset, -8 needs verification).
func UserID(id int32) []byte {
	return frame(OpcodeUserID, func(w *packet.Writer) {
		w.WriteInt(id)
	})
}

// ProtocolVersion announces the Bancho protocol revision (19).
func ProtocolVersion(version int32) []byte {
	return frame(OpcodeProtocolVersion, func(w *packet.Writer) {
		w.WriteInt(version)
	})
}

// Privileges sends the client-side privilege bitset.
func Privileges(privs int32) []byte {
	return frame(OpcodePrivileges, func(w *packet.Writer) {
		w.WriteInt(privs)
	})
}

// FriendsList sends the user's friend ids.
func FriendsList(ids []int32) []byte {
	return frame(OpcodeFriendsList, func(w *packet.Writer) {
		w.WriteIntList(ids)
	})
}

// SilenceEnd reports the remaining silence in seconds (0 = not silenced).
func SilenceEnd(delta int32) []byte {
	return frame(OpcodeSilenceEnd, func(w *packet.Writer) {
		w.WriteInt(delta)
	})
}

// UserSilenced tells everyone that a user was silenced.
func UserSilenced(userID int32) []byte {
	return frame(OpcodeUserSilenced, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}

// Logout tells other clients that a user went offline.
func Logout(userID int32) []byte {
	return frame(OpcodeUserLogout, func(w *packet.Writer) {
		w.WriteInt(userID)
		_ = w.WriteByte(0)
	})
}

// UserStatsData carries everything UserStats encodes.
type UserStatsData struct {
	UserID     int32
	Action     uint8
	InfoText   string
	MapMD5     string
	Mods       int32
	Mode       uint8
	MapID      int32
	RankedScore int64
	Accuracy   float32 // 0..1
	Plays      int32
	TotalScore int64
	GlobalRank int32
	PP         int16
}

// UserStats sends a user's current action and per-mode statistics.
func UserStats(d UserStatsData) []byte {
	return frame(OpcodeUserStats, func(w *packet.Writer) {
		w.WriteInt(d.UserID)
		_ = w.WriteByte(d.Action)
		w.WriteString(d.InfoText)
		w.WriteString(d.MapMD5)
		w.WriteInt(d.Mods)
		_ = w.WriteByte(d.Mode)
		w.WriteInt(d.MapID)
		w.WriteLong(d.RankedScore)
		w.WriteFloat(d.Accuracy)
		w.WriteInt(d.Plays)
		w.WriteLong(d.TotalScore)
		w.WriteInt(d.GlobalRank)
		w.WriteShort(d.PP)
	})
}

// UserPresenceData carries everything UserPresence encodes.
type UserPresenceData struct {
	UserID      int32
	Name        string
	UTCOffset   int8
	CountryCode uint8
	BanchoPrivs uint8
	Mode        uint8
	Longitude   float32
	Latitude    float32
	GlobalRank  int32
}

// UserPresence sends a user's identity and location info.
func UserPresence(d UserPresenceData) []byte {
	return frame(OpcodeUserPresence, func(w *packet.Writer) {
		w.WriteInt(d.UserID)
		w.WriteString(d.Name)
		_ = w.WriteByte(uint8(d.UTCOffset + 24))
		_ = w.WriteByte(d.CountryCode)
		_ = w.WriteByte(d.BanchoPrivs | d.Mode<<5)
		w.WriteFloat(d.Longitude)
		w.WriteFloat(d.Latitude)
		w.WriteInt(d.GlobalRank)
	})
}

// UserPresenceSingle asks the client to request presence for one user.
func UserPresenceSingle(userID int32) []byte {
	return frame(OpcodeUserPresenceSingle, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}

// UserPresenceBundle asks the client to request presence for many users.
func UserPresenceBundle(ids []int32) []byte {
	return frame(OpcodeUserPresenceBundle, func(w *packet.Writer) {
		w.WriteIntList(ids)
	})
}

// Restart tells the client to reconnect after ms milliseconds.
func Restart(ms int32) []byte {
	return frame(OpcodeRestart, func(w *packet.Writer) {
		w.WriteInt(ms)
	})
}

// AccountRestricted informs the client it is in restricted mode.
func AccountRestricted() []byte {
	return frame(OpcodeAccountRestricted, nil)
}

// VersionUpdate tells the client a newer release exists.
func VersionUpdate() []byte {
	return frame(OpcodeVersionUpdate, nil)
}

// MainMenuIcon sets the rotating main menu banner (icon url | click url).
func MainMenuIcon(iconURL, onclickURL string) []byte {
	return frame(OpcodeMainMenuIcon, func(w *packet.Writer) {
		w.WriteString(iconURL + "|" + onclickURL)
	})
}

// SwitchServer tells the client to move to another server after t seconds.
func SwitchServer(t int32) []byte {
	return frame(OpcodeSwitchServer, func(w *packet.Writer) {
		w.WriteInt(t)
	})
}

// SwitchTournamentServer points a tourney client at another endpoint.
func SwitchTournamentServer(ip string) []byte {
	return frame(OpcodeSwitchTournamentServer, func(w *packet.Writer) {
		w.WriteString(ip)
	})
}
