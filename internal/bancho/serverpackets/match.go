package serverpackets

import "github.com/udisondev/gosu/internal/bancho/packet"

// NewMatch announces a new lobby entry to `#lobby` members.
func NewMatch(m packet.MatchData) []byte {
	return frame(OpcodeNewMatch, m.Write)
}

// UpdateMatch broadcasts the current match state.
func UpdateMatch(m packet.MatchData) []byte {
	return frame(OpcodeUpdateMatch, m.Write)
}

// DisposeMatch removes a match from the lobby listing.
func DisposeMatch(matchID int32) []byte {
	return frame(OpcodeDisposeMatch, func(w *packet.Writer) {
		w.WriteInt(matchID)
	})
}

// MatchJoinSuccess confirms a join with the full match state.
func MatchJoinSuccess(m packet.MatchData) []byte {
	return frame(OpcodeMatchJoinSuccess, m.Write)
}

// MatchJoinFail rejects a join attempt.
func MatchJoinFail() []byte {
	return frame(OpcodeMatchJoinFail, nil)
}

// MatchStart pushes all players into gameplay with the match state.
func MatchStart(m packet.MatchData) []byte {
	return frame(OpcodeMatchStart, m.Write)
}

// MatchScoreUpdate relays a score frame to the other players.
func MatchScoreUpdate(sf packet.ScoreFrame) []byte {
	return frame(OpcodeMatchScoreUpdate, func(w *packet.Writer) {
		sf.Write(w)
	})
}

// MatchTransferHost tells a player they are now the host.
func MatchTransferHost() []byte {
	return frame(OpcodeMatchTransferHost, nil)
}

// MatchAllPlayersLoaded signals everyone finished loading the map.
func MatchAllPlayersLoaded() []byte {
	return frame(OpcodeMatchAllPlayersLoaded, nil)
}

// MatchPlayerFailed reports an in-play fail for the given slot.
func MatchPlayerFailed(slotID int32) []byte {
	return frame(OpcodeMatchPlayerFailed, func(w *packet.Writer) {
		w.WriteInt(slotID)
	})
}

// MatchComplete returns everyone to the results screen.
func MatchComplete() []byte {
	return frame(OpcodeMatchComplete, nil)
}

// MatchSkip skips the intro once every player requested it.
func MatchSkip() []byte {
	return frame(OpcodeMatchSkip, nil)
}

// MatchPlayerSkipped reports one slot's skip request.
func MatchPlayerSkipped(slotID int32) []byte {
	return frame(OpcodeMatchPlayerSkipped, func(w *packet.Writer) {
		w.WriteInt(slotID)
	})
}

// MatchInvite carries a clickable invite DM.
func MatchInvite(sender, text, recipient string, senderID int32) []byte {
	return frame(OpcodeMatchInvite, func(w *packet.Writer) {
		w.WriteString(sender)
		w.WriteString(text)
		w.WriteString(recipient)
		w.WriteInt(senderID)
	})
}

// MatchChangePassword pushes a password change to match members.
func MatchChangePassword(password string) []byte {
	return frame(OpcodeMatchChangePassword, func(w *packet.Writer) {
		w.WriteString(password)
	})
}

// MatchAbort cancels the ongoing play for every loaded player.
func MatchAbort() []byte {
	return frame(OpcodeMatchAbort, nil)
}
