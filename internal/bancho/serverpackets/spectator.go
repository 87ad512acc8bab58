package serverpackets

import "github.com/udisondev/gosu/internal/bancho/packet"

// SpectatorJoined tells the host a spectator joined.
func SpectatorJoined(userID int32) []byte {
	return frame(OpcodeSpectatorJoined, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}

// SpectatorLeft tells the host a spectator left.
func SpectatorLeft(userID int32) []byte {
	return frame(OpcodeSpectatorLeft, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}

// FellowSpectatorJoined tells other spectators about a new one.
func FellowSpectatorJoined(userID int32) []byte {
	return frame(OpcodeFellowSpectatorJoined, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}

// FellowSpectatorLeft tells other spectators one of them left.
func FellowSpectatorLeft(userID int32) []byte {
	return frame(OpcodeFellowSpectatorLeft, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}

// SpectateFrames retransmits a replay-frame bundle verbatim.
// The bundle bytes are forwarded exactly as the host sent them.
func SpectateFrames(bundle []byte) []byte {
	return frame(OpcodeSpectateFrames, func(w *packet.Writer) {
		w.WriteBytes(bundle)
	})
}

// SpectatorCantSpectate tells watchers the given spectator lacks the map.
func SpectatorCantSpectate(userID int32) []byte {
	return frame(OpcodeSpectatorCantSpectate, func(w *packet.Writer) {
		w.WriteInt(userID)
	})
}
