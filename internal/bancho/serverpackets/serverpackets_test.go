package serverpackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gosu/internal/bancho/packet"
)

func TestUserID_Encoding(t *testing.T) {
	want := []byte{0x05, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x7F}
	assert.Equal(t, want, UserID(2147483647))
}

func TestUserID_FailureCode(t *testing.T) {
	f := decode(t, UserID(-1))
	assert.Equal(t, uint16(OpcodeUserID), f.ID)
	v, err := packet.NewReader(f.Payload).ReadInt()
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestNotification_Encoding(t *testing.T) {
	want := []byte{
		0x18, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, // header: id 24, len 4
		0x0B, 0x02, 'h', 'i',
	}
	assert.Equal(t, want, Notification("hi"))
}

func TestLogout_Payload(t *testing.T) {
	f := decode(t, Logout(42))
	assert.Equal(t, uint16(OpcodeUserLogout), f.ID)
	assert.Equal(t, 5, len(f.Payload), "user id plus one state byte")
}

func TestPong_EmptyPayload(t *testing.T) {
	f := decode(t, Pong())
	assert.Equal(t, uint16(OpcodePong), f.ID)
	assert.Empty(t, f.Payload)
}

func TestSendMessage_Fields(t *testing.T) {
	f := decode(t, SendMessage("alice", "hello", "#osu", 7))
	assert.Equal(t, uint16(OpcodeSendMessage), f.ID)

	r := packet.NewReader(f.Payload)
	sender, err := r.ReadString()
	require.NoError(t, err)
	text, err := r.ReadString()
	require.NoError(t, err)
	recipient, err := r.ReadString()
	require.NoError(t, err)
	id, err := r.ReadInt()
	require.NoError(t, err)

	assert.Equal(t, "alice", sender)
	assert.Equal(t, "hello", text)
	assert.Equal(t, "#osu", recipient)
	assert.Equal(t, int32(7), id)
	assert.Equal(t, 0, r.Remaining())
}

func TestFriendsList_Encoding(t *testing.T) {
	f := decode(t, FriendsList([]int32{2, 5, 9}))
	r := packet.NewReader(f.Payload)
	ids, err := r.ReadIntList()
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 5, 9}, ids)
}

func TestMatchFrames_RoundTrip(t *testing.T) {
	var d packet.MatchData
	d.ID = 3
	d.Name = "room"
	d.HostID = 10
	d.SlotStatuses[0] = 4
	d.SlotIDs[0] = 10

	f := decode(t, UpdateMatch(d))
	assert.Equal(t, uint16(OpcodeUpdateMatch), f.ID)
	got, err := packet.ReadMatchData(packet.NewReader(f.Payload))
	require.NoError(t, err)
	assert.Equal(t, d, got)

	f = decode(t, NewMatch(d))
	assert.Equal(t, uint16(OpcodeNewMatch), f.ID)
}

func TestSpectateFrames_Verbatim(t *testing.T) {
	bundle := []byte{1, 2, 3, 4, 5}
	f := decode(t, SpectateFrames(bundle))
	assert.Equal(t, uint16(OpcodeSpectateFrames), f.ID)
	assert.Equal(t, bundle, f.Payload)
}

func decode(t *testing.T, b []byte) packet.Frame {
	t.Helper()
	f, err := packet.NewReader(b).ReadFrame()
	require.NoError(t, err)
	return f
}
