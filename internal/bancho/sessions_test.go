package bancho

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSessions_InsertAndLookup(t *testing.T) {
	reg := NewSessions(0)
	p := NewPlayer(2, "Some Player", PrivUnrestricted)
	require.NoError(t, reg.Insert(p))

	assert.Same(t, p, reg.GetByToken(p.Token))
	assert.Same(t, p, reg.GetByID(2))
	assert.Same(t, p, reg.GetBySafeName("some_player"))
	assert.Same(t, p, reg.GetByName("Some Player"))
	assert.Equal(t, 1, reg.Count())
}

func TestSessions_RejectsDuplicates(t *testing.T) {
	reg := NewSessions(0)
	p := NewPlayer(2, "dup", PrivUnrestricted)
	require.NoError(t, reg.Insert(p))

	sameID := NewPlayer(2, "other", PrivUnrestricted)
	assert.Error(t, reg.Insert(sameID))

	sameName := NewPlayer(3, "dup", PrivUnrestricted)
	assert.Error(t, reg.Insert(sameName))

	empty := NewPlayer(4, "tokenless", PrivUnrestricted)
	empty.Token = ""
	assert.Error(t, reg.Insert(empty))

	assert.Equal(t, 1, reg.Count())
}

func TestSessions_Remove(t *testing.T) {
	reg := NewSessions(0)
	p := NewPlayer(2, "leaver", PrivUnrestricted)
	require.NoError(t, reg.Insert(p))

	reg.Remove(p)
	assert.Nil(t, reg.GetByID(2))
	assert.Nil(t, reg.GetByToken(p.Token))
	assert.Zero(t, reg.Count())

	reg.Remove(p) // absent removal is a no-op
}

func TestSessions_StaffAndUnrestricted(t *testing.T) {
	reg := NewSessions(0)
	normal := NewPlayer(2, "normal", PrivUnrestricted)
	staff := NewPlayer(3, "mod", PrivUnrestricted|PrivMod)
	banned := NewPlayer(4, "banned", 0)
	require.NoError(t, reg.Insert(normal))
	require.NoError(t, reg.Insert(staff))
	require.NoError(t, reg.Insert(banned))

	assert.Len(t, reg.Unrestricted(), 2)
	st := reg.Staff()
	require.Len(t, st, 1)
	assert.Same(t, staff, st[0])
}

func TestSessions_EnqueueAllExcept(t *testing.T) {
	reg := NewSessions(0)
	a := NewPlayer(2, "a", PrivUnrestricted)
	b := NewPlayer(3, "b", PrivUnrestricted)
	require.NoError(t, reg.Insert(a))
	require.NoError(t, reg.Insert(b))

	reg.EnqueueAll([]byte{1, 2, 3}, a.ID)
	assert.Nil(t, a.Dequeue())
	assert.Equal(t, []byte{1, 2, 3}, b.Dequeue())
}

func TestSessions_CheckPassword(t *testing.T) {
	reg := NewSessions(4)
	pwMD5 := "0cc175b9c0f1b6a831c399e269772661"
	hash, err := bcrypt.GenerateFromPassword([]byte(pwMD5), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, reg.CheckPassword(pwMD5, hash))
	// second call hits the cache and must agree
	assert.True(t, reg.CheckPassword(pwMD5, hash))
	assert.False(t, reg.CheckPassword("wrong", hash))
}

func TestBcryptCache_Eviction(t *testing.T) {
	c := newBcryptCache(2)
	c.put("h1", "p1")
	c.put("h2", "p2")
	c.put("h3", "p3") // evicts h1

	_, ok := c.get("h1")
	assert.False(t, ok)
	v, ok := c.get("h2")
	assert.True(t, ok)
	assert.Equal(t, "p2", v)
	v, ok = c.get("h3")
	assert.True(t, ok)
	assert.Equal(t, "p3", v)
}

func TestBcryptCache_ReplaceDoesNotGrow(t *testing.T) {
	c := newBcryptCache(2)
	c.put("h1", "p1")
	c.put("h1", "p1-new")
	c.put("h2", "p2")

	v, ok := c.get("h1")
	assert.True(t, ok)
	assert.Equal(t, "p1-new", v)
	_, ok = c.get("h2")
	assert.True(t, ok)
}

func TestMakeSafeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Player One", "player_one"},
		{"ALLCAPS", "allcaps"},
		{"already_safe", "already_safe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MakeSafeName(tt.in), fmt.Sprintf("MakeSafeName(%q)", tt.in))
	}
}

func TestGenerateToken_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for range 64 {
		tok := GenerateToken()
		assert.Len(t, tok, 32)
		_, dup := seen[tok]
		assert.False(t, dup)
		seen[tok] = struct{}{}
	}
}

func TestNewPlayer_StartsWithBotFriendship(t *testing.T) {
	p := NewPlayer(2, "p", PrivUnrestricted)
	assert.True(t, p.IsFriend(BotUserID))
	assert.Contains(t, p.FriendIDs(), int32(BotUserID))
}

func TestPlayer_FriendBlockDisjoint(t *testing.T) {
	p := NewPlayer(2, "p", PrivUnrestricted)
	p.AddFriend(5)
	assert.True(t, p.IsFriend(5))

	p.AddBlock(5)
	assert.True(t, p.HasBlocked(5))
	assert.False(t, p.IsFriend(5), "blocking removes the friendship")

	p.AddFriend(5)
	assert.False(t, p.HasBlocked(5), "friending removes the block")
}

func TestPlayer_BotQueueDropsEverything(t *testing.T) {
	p := NewPlayer(1, "bot", PrivUnrestricted)
	p.IsBot = true
	p.Enqueue([]byte{1, 2, 3})
	assert.Nil(t, p.Dequeue())
}
