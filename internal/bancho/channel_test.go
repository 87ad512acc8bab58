package bancho

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

func TestChannel_WireName(t *testing.T) {
	tests := []struct{ real, wire string }{
		{"#osu", "#osu"},
		{"#lobby", "#lobby"},
		{"#multi_3", "#multiplayer"},
		{"#multi_63", "#multiplayer"},
		{"#spec_1001", "#spectator"},
	}
	for _, tt := range tests {
		ch := &Channel{RealName: tt.real}
		assert.Equal(t, tt.wire, ch.WireName(), tt.real)
	}
}

func TestChannel_Privileges(t *testing.T) {
	open := &Channel{RealName: "#osu"}
	assert.True(t, open.CanRead(PrivUnrestricted))
	assert.True(t, open.CanWrite(PrivUnrestricted))

	staffOnly := &Channel{RealName: "#staff", ReadPriv: PrivStaff, WritePriv: PrivStaff}
	assert.False(t, staffOnly.CanRead(PrivUnrestricted))
	assert.True(t, staffOnly.CanRead(PrivMod))
	assert.False(t, staffOnly.CanWrite(PrivUnrestricted))
	assert.True(t, staffOnly.CanWrite(PrivAdmin))
}

func TestChannel_ModeratedMode(t *testing.T) {
	ch := &Channel{RealName: "#osu"}
	assert.True(t, ch.CanWrite(PrivUnrestricted))

	ch.SetModerated(true)
	assert.False(t, ch.CanWrite(PrivUnrestricted), "moderated channels accept staff only")
	assert.True(t, ch.CanWrite(PrivMod))
	assert.True(t, ch.CanRead(PrivUnrestricted), "reading is unaffected")

	ch.SetModerated(false)
	assert.True(t, ch.CanWrite(PrivUnrestricted))
}

func TestChannel_Membership(t *testing.T) {
	ch := &Channel{RealName: "#osu"}
	a := NewPlayer(2, "a", PrivUnrestricted)
	b := NewPlayer(3, "b", PrivUnrestricted)

	ch.addMember(a)
	ch.addMember(b)
	assert.Equal(t, 2, ch.MemberCount())
	assert.True(t, ch.HasMember(a))

	ch.removeMember(a)
	assert.Equal(t, 1, ch.MemberCount())
	assert.False(t, ch.HasMember(a))
	assert.True(t, ch.HasMember(b))
}

func TestChannel_SendExcludesSender(t *testing.T) {
	ch := &Channel{RealName: "#osu"}
	a := NewPlayer(2, "a", PrivUnrestricted)
	b := NewPlayer(3, "b", PrivUnrestricted)
	ch.addMember(a)
	ch.addMember(b)

	ch.Send([]byte{9, 9}, a)
	assert.Nil(t, a.Dequeue())
	assert.Equal(t, []byte{9, 9}, b.Dequeue())
}

func TestChannel_SendSelectiveSkipsNonMembers(t *testing.T) {
	ch := &Channel{RealName: "#osu"}
	in := NewPlayer(2, "in", PrivUnrestricted)
	out := NewPlayer(3, "out", PrivUnrestricted)
	ch.addMember(in)

	ch.SendSelective([]byte{7}, []*Player{in, out})
	assert.Equal(t, []byte{7}, in.Dequeue())
	assert.Nil(t, out.Dequeue())
}

func TestChannels_AppendIgnoresDuplicates(t *testing.T) {
	reg := NewChannels()
	reg.Append(&Channel{RealName: "#osu"})
	reg.Append(&Channel{RealName: "#osu", Topic: "impostor"})

	ch := reg.GetByRealName("#osu")
	require.NotNil(t, ch)
	assert.Empty(t, ch.Topic, "the first registration wins")
	assert.Len(t, reg.All(), 1)
}

func TestChannels_Remove(t *testing.T) {
	reg := NewChannels()
	ch := &Channel{RealName: "#multi_0", Instance: true}
	reg.Append(ch)
	reg.Remove(ch)
	assert.Nil(t, reg.GetByRealName("#multi_0"))
}

func TestServer_JoinChannelGates(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "joiner")

	staffCh := &Channel{RealName: "#staff", ReadPriv: PrivStaff}
	s.Channels.Append(staffCh)
	assert.False(t, s.JoinChannel(p, staffCh), "privilege gate")

	lobby := &Channel{RealName: "#lobby"}
	s.Channels.Append(lobby)
	assert.False(t, s.JoinChannel(p, lobby), "lobby needs the lobby-join packet")
	p.SetInLobby(true)
	assert.True(t, s.JoinChannel(p, lobby))
	assert.False(t, s.JoinChannel(p, lobby), "double join rejected")

	ids := drainOpcodes(t, p)
	assert.True(t, containsOpcode(ids, serverpackets.OpcodeChannelJoinSuccess))
}

func TestServer_LeaveChannelDestroysEmptyInstance(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "watcher")

	inst := &Channel{RealName: "#spec_9", Instance: true}
	s.Channels.Append(inst)
	require.True(t, s.JoinChannel(p, inst))

	s.LeaveChannel(p, inst, true)
	assert.Nil(t, s.Channels.GetByRealName("#spec_9"))

	ids := drainOpcodes(t, p)
	assert.True(t, containsOpcode(ids, serverpackets.OpcodeChannelKick))
}
