package bancho

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_UnknownIsSilent(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")

	res := s.commands.execute(p, "#osu", "!nosuchcommand")
	assert.Empty(t, res.response)

	res = s.commands.execute(p, "#osu", "!")
	assert.Empty(t, res.response)
}

func TestCommands_Roll(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "roller")

	res := s.commands.execute(p, "#osu", "!roll")
	assert.Contains(t, res.response, "roller rolls")
	assert.False(t, res.hidden)

	res = s.commands.execute(p, "#osu", "!roll 1")
	assert.Contains(t, res.response, "roller rolls")
}

func TestCommands_Help(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")

	res := s.commands.execute(p, "#osu", "!help")
	assert.Contains(t, res.response, "Available commands:")
	assert.Contains(t, res.response, "!roll")
	assert.NotContains(t, res.response, "!echo", "staff commands are hidden from normal users")

	staff := NewPlayer(3, "mod", PrivUnrestricted|PrivMod)
	require.NoError(t, s.Sessions.Insert(staff))
	res = s.commands.execute(staff, "#osu", "!help")
	assert.Contains(t, res.response, "!echo")
}

func TestCommands_PrivilegeGate(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")

	res := s.commands.execute(p, "#osu", "!echo hello")
	assert.Empty(t, res.response, "staff commands are invisible to normal users")

	staff := NewPlayer(3, "mod", PrivUnrestricted|PrivMod)
	require.NoError(t, s.Sessions.Insert(staff))
	res = s.commands.execute(staff, "#osu", "!echo hello")
	assert.Equal(t, "hello", res.response)
}

func TestCommands_PanicRecovery(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")
	s.commands.register(s.commands.cmds, &command{
		name: "boom",
		fn: func(s *Server, ctx *commandContext) (string, error) {
			panic("kaboom")
		},
	})

	res := s.commands.execute(p, "#osu", "!boom")
	assert.Equal(t, "An unexpected error occurred.", res.response)
}

func TestCommands_MultiplayerGate(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")

	res := s.commands.execute(p, "#osu", "!mp")
	assert.Contains(t, res.response, "Usage: !mp")

	res = s.commands.execute(p, "#osu", "!mp start")
	assert.Equal(t, "You are not in a multiplayer match.", res.response)

	res = s.commands.execute(p, "#osu", "!mp help")
	assert.Contains(t, res.response, "Available commands:", "help works outside a match")

	host := newTestPlayer(t, s, 3, "host")
	m := createTestMatch(t, s, host)
	other := newTestPlayer(t, s, 4, "other")
	require.True(t, s.JoinMatch(other, m, ""))

	res = s.commands.execute(other, m.Chat.RealName, "!mp abort")
	assert.Equal(t, "Match commands require host or referee status.", res.response)

	res = s.commands.execute(host, m.Chat.RealName, "!mp nosuchsub")
	assert.Contains(t, res.response, "Unknown subcommand")
}

func TestCommands_MultiplayerOnlyInMatchChannel(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)

	res := s.commands.execute(host, "#osu", "!mp start")
	assert.Equal(t, "Match commands only work inside the match's own channel.", res.response)
	assert.False(t, m.InProgress())

	res = s.commands.execute(host, "#osu", "!mp help")
	assert.Contains(t, res.response, "Available commands:",
		"help is answered wherever it is asked")

	res = s.commands.execute(host, m.Chat.RealName, "!mp start force")
	assert.Equal(t, "Good luck!", res.response)
	assert.True(t, m.InProgress())
}

func TestCommands_PoolGate(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")

	res := s.commands.execute(p, "#osu", "!pool list")
	assert.Empty(t, res.response, "the pool set is invisible without tournament access")

	tm := NewPlayer(3, "tm", PrivUnrestricted|PrivTournament)
	require.NoError(t, s.Sessions.Insert(tm))
	res = s.commands.execute(tm, "#osu", "!pool")
	assert.Contains(t, res.response, "Usage: !pool")
}

func TestCommands_ClanHelp(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "user")

	res := s.commands.execute(p, "#osu", "!clan")
	assert.Contains(t, res.response, "Available commands:")

	res = s.commands.execute(p, "#osu", "!clan nosuchsub")
	assert.Contains(t, res.response, "Unknown subcommand")
}

func TestMpStart_Gating(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	other := newTestPlayer(t, s, 3, "other")
	require.True(t, s.JoinMatch(other, m, ""))

	res := s.commands.execute(host, m.Chat.RealName, "!mp start")
	assert.Contains(t, res.response, "not ready", "unready players block a bare start")
	assert.False(t, m.InProgress())

	res = s.commands.execute(host, m.Chat.RealName, "!mp start force")
	assert.Equal(t, "Good luck!", res.response)
	assert.True(t, m.InProgress())
}

func TestMpSize_LocksTail(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)

	res := s.commands.execute(host, m.Chat.RealName, "!mp size 4")
	assert.Equal(t, "Match size set to 4.", res.response)
	for i := 1; i < 4; i++ {
		assert.NotEqual(t, SlotLocked, m.SlotView(i).Status, "slot %d stays joinable", i)
	}
	for i := 4; i < 16; i++ {
		assert.Equal(t, SlotLocked, m.SlotView(i).Status, "slot %d is locked", i)
	}

	res = s.commands.execute(host, m.Chat.RealName, "!mp size 40")
	assert.NotEmpty(t, res.response)
}

func TestMpRandPW(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	require.Empty(t, m.Password())

	res := s.commands.execute(host, m.Chat.RealName, "!mp randpw")
	assert.Equal(t, "Match password randomized.", res.response)
	assert.NotEmpty(t, m.Password())
}

func TestParseSilenceDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"10m", 10 * time.Minute, false},
		{"2h", 2 * time.Hour, false},
		{"3d", 72 * time.Hour, false},
		{"1w", 7 * 24 * time.Hour, false},
		{"", 0, true},
		{"s", 0, true},
		{"10x", 0, true},
		{"-5m", 0, true},
	}
	for _, tt := range tests {
		got, err := parseSilenceDuration(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParsePick(t *testing.T) {
	tests := []struct {
		in      string
		want    poolBan
		wantErr bool
	}{
		{"NM2", poolBan{Mods: 0, Slot: 2}, false},
		{"HD1", poolBan{Mods: ModHidden, Slot: 1}, false},
		{"hd1", poolBan{Mods: ModHidden, Slot: 1}, false},
		{"HDDT3", poolBan{Mods: ModHidden | ModDoubleTime, Slot: 3}, false},
		{"TB1", poolBan{}, true}, // unknown mod pair
		{"2", poolBan{}, true},
		{"NM", poolBan{}, true},
	}
	for _, tt := range tests {
		got, err := parsePick(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
