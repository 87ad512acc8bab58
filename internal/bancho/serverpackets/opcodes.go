// Package serverpackets builds the server→client side of the Bancho
// protocol. Every builder returns a complete frame (7-byte header plus
// payload) ready to be appended to a session's outbound buffer.
package serverpackets

// Server→client packet ids.
const (
	OpcodeUserID                 = 5
	OpcodeSendMessage            = 7
	OpcodePong                   = 8
	OpcodeUserStats              = 11
	OpcodeUserLogout             = 12
	OpcodeSpectatorJoined        = 13
	OpcodeSpectatorLeft          = 14
	OpcodeSpectateFrames         = 15
	OpcodeVersionUpdate          = 19
	OpcodeSpectatorCantSpectate  = 22
	OpcodeNotification           = 24
	OpcodeUpdateMatch            = 26
	OpcodeNewMatch               = 27
	OpcodeDisposeMatch           = 28
	OpcodeMatchJoinSuccess       = 36
	OpcodeMatchJoinFail          = 37
	OpcodeFellowSpectatorJoined  = 42
	OpcodeFellowSpectatorLeft    = 43
	OpcodeMatchStart             = 46
	OpcodeMatchScoreUpdate       = 48
	OpcodeMatchTransferHost      = 50
	OpcodeMatchAllPlayersLoaded  = 53
	OpcodeMatchPlayerFailed      = 57
	OpcodeMatchComplete          = 58
	OpcodeMatchSkip              = 61
	OpcodeChannelJoinSuccess     = 64
	OpcodeChannelInfo            = 65
	OpcodeChannelKick            = 66
	OpcodeChannelAutoJoin        = 67
	OpcodePrivileges             = 71
	OpcodeFriendsList            = 72
	OpcodeProtocolVersion        = 75
	OpcodeMainMenuIcon           = 76
	OpcodeMatchPlayerSkipped     = 81
	OpcodeUserPresence           = 83
	OpcodeRestart                = 86
	OpcodeMatchInvite            = 88
	OpcodeChannelInfoEnd         = 89
	OpcodeMatchChangePassword    = 91
	OpcodeSilenceEnd             = 92
	OpcodeUserSilenced           = 94
	OpcodeUserPresenceSingle     = 95
	OpcodeUserPresenceBundle     = 96
	OpcodeUserDMBlocked          = 100
	OpcodeTargetIsSilenced       = 101
	OpcodeSwitchServer           = 103
	OpcodeAccountRestricted      = 104
	OpcodeMatchAbort             = 106
	OpcodeSwitchTournamentServer = 107
)
