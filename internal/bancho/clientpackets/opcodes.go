// Package clientpackets parses the client→server side of the Bancho
// protocol. Each ParseX takes one frame payload and returns a typed struct.
package clientpackets

// Client→server packet ids.
const (
	OpcodeChangeAction            = 0
	OpcodeSendPublicMessage       = 1
	OpcodeLogout                  = 2
	OpcodeRequestStatusUpdate     = 3
	OpcodePing                    = 4
	OpcodeStartSpectating         = 16
	OpcodeStopSpectating          = 17
	OpcodeSpectateFrames          = 18
	OpcodeCantSpectate            = 21
	OpcodeSendPrivateMessage      = 25
	OpcodePartLobby               = 29
	OpcodeJoinLobby               = 30
	OpcodeCreateMatch             = 31
	OpcodeJoinMatch               = 32
	OpcodePartMatch               = 33
	OpcodeMatchChangeSlot         = 38
	OpcodeMatchReady              = 39
	OpcodeMatchLock               = 40
	OpcodeMatchChangeSettings     = 41
	OpcodeMatchStart              = 44
	OpcodeMatchScoreUpdate        = 47
	OpcodeMatchComplete           = 49
	OpcodeMatchChangeMods         = 51
	OpcodeMatchLoadComplete       = 52
	OpcodeMatchNoBeatmap          = 54
	OpcodeMatchNotReady           = 55
	OpcodeMatchFailed             = 56
	OpcodeMatchHasBeatmap         = 59
	OpcodeMatchSkipRequest        = 60
	OpcodeChannelJoin             = 63
	OpcodeMatchTransferHost       = 70
	OpcodeFriendAdd               = 73
	OpcodeFriendRemove            = 74
	OpcodeMatchChangeTeam         = 77
	OpcodeChannelPart             = 78
	OpcodeReceiveUpdates          = 79
	OpcodeSetAwayMessage          = 82
	OpcodeUserStatsRequest        = 85
	OpcodeMatchInvite             = 87
	OpcodeUserChangePassword      = 90
	OpcodeTournamentMatchInfo     = 93
	OpcodeUserPresenceRequest     = 97
	OpcodeUserPresenceRequestAll  = 98
	OpcodeToggleBlockNonFriendDMs = 99
	OpcodeTournamentJoinChannel   = 108
	OpcodeTournamentLeaveChannel  = 109
)
