package bancho

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// PresenceFilter controls which users' updates a client wants to receive.
type PresenceFilter int32

const (
	PresenceFilterNil PresenceFilter = iota
	PresenceFilterAll
	PresenceFilterFriends
)

// Score is the most recent submitted score for one mode, as the score
// submission side records it on the session.
type Score struct {
	ID         int64
	Mode       Mode
	MapMD5     string
	Score      int64
	Accuracy   float32
	MaxCombo   int32
	Mods       Mods
	PP         float32
	ServerTime time.Time
}

// NPContext is the parsed "now playing" state captured from a /np action,
// kept for five minutes for use by later commands.
type NPContext struct {
	MapID     int32
	Mode      Mode
	Mods      Mods
	MapLength int32
	ExpiresAt time.Time
}

// Player is one logged-in session. Identity fields (ID, Name, SafeName,
// Token) are immutable for the session's lifetime; everything else is
// guarded by mu. Cross-handler writes happen only through Enqueue.
type Player struct {
	ID        int32
	Name      string
	SafeName  string
	Token     string
	LoginTime time.Time
	UTCOffset int8
	IsBot     bool

	// Stream the client identified with at login ("stable", "tourney", …).
	Stream string

	PwBcrypt []byte

	mu    sync.Mutex
	queue []byte

	privs      Privileges
	country    string
	latitude   float32
	longitude  float32
	status     Status
	friends    map[int32]struct{}
	blocks     map[int32]struct{}
	channels   []*Channel
	spectating *Player
	spectators []*Player
	match      *Match
	inLobby    bool

	presenceFilter PresenceFilter
	awayMessage    string
	pmFriendsOnly  bool

	silenceEnd time.Time
	donorEnd   time.Time
	lastRecv   time.Time

	np           *NPContext
	recentScores [NumModes]*Score
	stats        [NumModes]ModeStats
}

// GenerateToken returns a fresh opaque session token.
func GenerateToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b[:])
}

// MakeSafeName folds a display name into its stable lookup key:
// lowercase with spaces replaced by underscores.
func MakeSafeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// NewPlayer creates a session with a fresh token. The bot is a friend of
// every session, so its messages always render client-side.
func NewPlayer(id int32, name string, privs Privileges) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		SafeName:  MakeSafeName(name),
		Token:     GenerateToken(),
		LoginTime: time.Now(),
		privs:     privs,
		friends:   map[int32]struct{}{BotUserID: {}},
		blocks:    make(map[int32]struct{}),
		lastRecv:  time.Now(),
	}
}

// Enqueue appends outbound bytes for delivery on the session's next request.
// Bot sessions drop everything: nothing ever polls their queue.
func (p *Player) Enqueue(b []byte) {
	if p.IsBot || len(b) == 0 {
		return
	}
	p.mu.Lock()
	p.queue = append(p.queue, b...)
	p.mu.Unlock()
}

// Dequeue takes the pending outbound bytes, leaving the queue empty.
func (p *Player) Dequeue() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil
	}
	out := p.queue
	p.queue = nil
	return out
}

// Privileges returns the current privilege bitset.
func (p *Player) Privileges() Privileges {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.privs
}

// SetPrivileges replaces the privilege bitset.
func (p *Player) SetPrivileges(privs Privileges) {
	p.mu.Lock()
	p.privs = privs
	p.mu.Unlock()
}

// Restricted reports whether the account lost its unrestricted bit.
func (p *Player) Restricted() bool {
	return !p.Privileges().Has(PrivUnrestricted)
}

// Status returns a copy of the current presence status.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// SetStatus replaces the presence status.
func (p *Player) SetStatus(st Status) {
	p.mu.Lock()
	p.status = st
	p.mu.Unlock()
}

// Country returns the ISO country code.
func (p *Player) Country() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.country
}

// SetGeolocation sets country and coordinates.
func (p *Player) SetGeolocation(country string, lat, lon float32) {
	p.mu.Lock()
	p.country = country
	p.latitude = lat
	p.longitude = lon
	p.mu.Unlock()
}

// Location returns latitude and longitude.
func (p *Player) Location() (lat, lon float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latitude, p.longitude
}

// Silenced reports whether the session is currently silenced.
func (p *Player) Silenced() bool {
	return p.SilenceRemaining() > 0
}

// SilenceRemaining returns how long the current silence still runs.
func (p *Player) SilenceRemaining() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Until(p.silenceEnd)
}

// SilenceEnd returns the silence end timestamp.
func (p *Player) SilenceEnd() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.silenceEnd
}

// SetSilenceEnd sets the silence end timestamp.
func (p *Player) SetSilenceEnd(t time.Time) {
	p.mu.Lock()
	p.silenceEnd = t
	p.mu.Unlock()
}

// DonorEnd returns the supporter expiry timestamp.
func (p *Player) DonorEnd() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.donorEnd
}

// SetDonorEnd sets the supporter expiry timestamp.
func (p *Player) SetDonorEnd(t time.Time) {
	p.mu.Lock()
	p.donorEnd = t
	p.mu.Unlock()
}

// AddFriend inserts id into the friend set; blocks and friends stay disjoint.
func (p *Player) AddFriend(id int32) {
	p.mu.Lock()
	delete(p.blocks, id)
	p.friends[id] = struct{}{}
	p.mu.Unlock()
}

// RemoveFriend removes id from the friend set.
func (p *Player) RemoveFriend(id int32) {
	p.mu.Lock()
	delete(p.friends, id)
	p.mu.Unlock()
}

// AddBlock inserts id into the block set; blocks and friends stay disjoint.
func (p *Player) AddBlock(id int32) {
	p.mu.Lock()
	delete(p.friends, id)
	p.blocks[id] = struct{}{}
	p.mu.Unlock()
}

// RemoveBlock removes id from the block set.
func (p *Player) RemoveBlock(id int32) {
	p.mu.Lock()
	delete(p.blocks, id)
	p.mu.Unlock()
}

// IsFriend reports whether id is in the friend set.
func (p *Player) IsFriend(id int32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.friends[id]
	return ok
}

// HasBlocked reports whether id is in the block set.
func (p *Player) HasBlocked(id int32) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.blocks[id]
	return ok
}

// FriendIDs returns a snapshot of the friend set.
func (p *Player) FriendIDs() []int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]int32, 0, len(p.friends))
	for id := range p.friends {
		ids = append(ids, id)
	}
	return ids
}

// Channels returns a snapshot of joined channels.
func (p *Player) Channels() []*Channel {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Channel(nil), p.channels...)
}

// InChannel reports whether ch is in the session's channel list.
func (p *Player) InChannel(ch *Channel) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.channels {
		if c == ch {
			return true
		}
	}
	return false
}

func (p *Player) addChannel(ch *Channel) {
	p.mu.Lock()
	p.channels = append(p.channels, ch)
	p.mu.Unlock()
}

func (p *Player) removeChannel(ch *Channel) {
	p.mu.Lock()
	for i, c := range p.channels {
		if c == ch {
			p.channels = append(p.channels[:i], p.channels[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
}

// Spectating returns the host this session is watching, if any.
func (p *Player) Spectating() *Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spectating
}

// Spectators returns a snapshot of this session's watchers.
func (p *Player) Spectators() []*Player {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*Player(nil), p.spectators...)
}

// Match returns the session's current match, if any.
func (p *Player) Match() *Match {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.match
}

func (p *Player) setMatch(m *Match) {
	p.mu.Lock()
	p.match = m
	p.mu.Unlock()
}

func (p *Player) setSpectating(host *Player) {
	p.mu.Lock()
	p.spectating = host
	p.mu.Unlock()
}

func (p *Player) addSpectator(s *Player) {
	p.mu.Lock()
	p.spectators = append(p.spectators, s)
	p.mu.Unlock()
}

func (p *Player) removeSpectator(s *Player) {
	p.mu.Lock()
	for i, sp := range p.spectators {
		if sp == s {
			p.spectators = append(p.spectators[:i], p.spectators[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
}

// InLobby reports whether the session is browsing the multiplayer lobby.
func (p *Player) InLobby() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inLobby
}

// SetInLobby toggles lobby membership.
func (p *Player) SetInLobby(v bool) {
	p.mu.Lock()
	p.inLobby = v
	p.mu.Unlock()
}

// PresenceFilter returns the client's presence filter.
func (p *Player) PresenceFilter() PresenceFilter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.presenceFilter
}

// SetPresenceFilter sets the client's presence filter.
func (p *Player) SetPresenceFilter(f PresenceFilter) {
	p.mu.Lock()
	p.presenceFilter = f
	p.mu.Unlock()
}

// AwayMessage returns the away message ("" = not away).
func (p *Player) AwayMessage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.awayMessage
}

// SetAwayMessage sets or clears the away message.
func (p *Player) SetAwayMessage(msg string) {
	p.mu.Lock()
	p.awayMessage = msg
	p.mu.Unlock()
}

// PMFriendsOnly reports whether DMs are limited to friends.
func (p *Player) PMFriendsOnly() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pmFriendsOnly
}

// SetPMFriendsOnly toggles the friends-only DM setting.
func (p *Player) SetPMFriendsOnly(v bool) {
	p.mu.Lock()
	p.pmFriendsOnly = v
	p.mu.Unlock()
}

// LastRecv returns the time of the last packet received on this session.
func (p *Player) LastRecv() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRecv
}

// TouchRecv records that traffic just arrived on this session.
func (p *Player) TouchRecv() {
	p.mu.Lock()
	p.lastRecv = time.Now()
	p.mu.Unlock()
}

// NP returns the now-playing context if it has not expired.
func (p *Player) NP() *NPContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.np == nil || time.Now().After(p.np.ExpiresAt) {
		return nil
	}
	return p.np
}

// SetNP stores a now-playing context.
func (p *Player) SetNP(np *NPContext) {
	p.mu.Lock()
	p.np = np
	p.mu.Unlock()
}

// RecentScore returns the most recent score for mode, if any.
func (p *Player) RecentScore(mode Mode) *Score {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(mode) >= NumModes {
		return nil
	}
	return p.recentScores[mode]
}

// SetRecentScore records the most recent score for its mode.
func (p *Player) SetRecentScore(s *Score) {
	p.mu.Lock()
	if int(s.Mode) < NumModes {
		p.recentScores[s.Mode] = s
	}
	p.mu.Unlock()
}

// Stats returns the stats row for mode.
func (p *Player) Stats(mode Mode) ModeStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	if int(mode) >= NumModes {
		return ModeStats{}
	}
	return p.stats[mode]
}

// SetStats replaces the stats row for mode.
func (p *Player) SetStats(mode Mode, st ModeStats) {
	p.mu.Lock()
	if int(mode) < NumModes {
		p.stats[mode] = st
	}
	p.mu.Unlock()
}
