package bancho

import (
	"fmt"
	"sync"

	"github.com/udisondev/gosu/internal/bancho/packet"
	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

// MaxMatches bounds concurrent multiplayer rooms.
const MaxMatches = 64

// Matches is the fixed-size match table; a slot's id is its index.
type Matches struct {
	mu    sync.RWMutex
	table [MaxMatches]*Match
}

// NewMatches creates an empty match table.
func NewMatches() *Matches {
	return &Matches{}
}

// Get returns the match with the given id, or nil.
func (ms *Matches) Get(id uint16) *Match {
	if id >= MaxMatches {
		return nil
	}
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.table[id]
}

// All returns every active match.
func (ms *Matches) All() []*Match {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	out := make([]*Match, 0, MaxMatches)
	for _, m := range ms.table {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// allocate claims the first free id. Returns nil when the table is full.
func (ms *Matches) allocate(srv *Server) *Match {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i := range ms.table {
		if ms.table[i] == nil {
			m := newMatch(uint16(i), srv)
			ms.table[i] = m
			return m
		}
	}
	return nil
}

// release frees the id.
func (ms *Matches) release(id uint16) {
	if id >= MaxMatches {
		return
	}
	ms.mu.Lock()
	ms.table[id] = nil
	ms.mu.Unlock()
}

// CreateMatch allocates a room from a client CREATE_MATCH blob and seats
// the creator as host. Returns nil when the table is full.
func (s *Server) CreateMatch(host *Player, d packet.MatchData) *Match {
	m := s.Matches.allocate(s)
	if m == nil {
		host.Enqueue(serverpackets.MatchJoinFail())
		host.Enqueue(serverpackets.Notification("The match table is full, try again later."))
		return nil
	}

	m.mu.Lock()
	m.name = d.Name
	if len(m.name) > MaxMatchNameLen {
		m.name = m.name[:MaxMatchNameLen]
	}
	m.password = d.Password
	m.mapID = d.MapID
	m.mapMD5 = d.MapMD5
	m.mapName = d.MapName
	m.mode = Mode(d.Mode)
	m.mods = Mods(d.Mods)
	m.freemods = d.Freemods
	m.winCondition = WinCondition(d.WinCondition)
	m.teamType = TeamType(d.TeamType)
	m.seed = d.Seed
	m.hostID = host.ID
	m.mu.Unlock()

	m.Chat = &Channel{
		RealName: fmt.Sprintf("#multi_%d", m.ID),
		Topic:    fmt.Sprintf("Room %d's multiplayer chat.", m.ID),
		AutoJoin: false,
		Instance: true,
	}
	s.Channels.Append(m.Chat)

	s.log.Info("match created", "match", m.ID, "name", m.Name(), "host", host.ID)
	if !s.JoinMatch(host, m, m.Password()) {
		// should not happen on a fresh room; clean up if it does
		s.DisposeMatch(m)
		return nil
	}

	frame := serverpackets.NewMatch(m.WireData(false))
	for _, other := range s.Sessions.All() {
		if other != host && other.InLobby() {
			other.Enqueue(frame)
		}
	}
	return m
}

// JoinMatch seats p in m when the password matches and a slot is free.
// Staff bypass the password.
func (s *Server) JoinMatch(p *Player, m *Match, password string) bool {
	if cur := p.Match(); cur != nil && cur != m {
		s.LeaveMatch(p)
	}

	if p.Restricted() || p.Silenced() {
		p.Enqueue(serverpackets.MatchJoinFail())
		return false
	}
	// a tourney session of this user already observes the room
	if m.HasTourneyClient(p.ID) {
		p.Enqueue(serverpackets.MatchJoinFail())
		return false
	}
	if pw := m.Password(); pw != "" && password != pw &&
		!p.Privileges().HasAny(PrivStaff) {
		p.Enqueue(serverpackets.MatchJoinFail())
		return false
	}
	if !m.Join(p) {
		p.Enqueue(serverpackets.MatchJoinFail())
		return false
	}

	p.setMatch(m)
	s.JoinChannel(p, m.Chat)
	p.Enqueue(serverpackets.MatchJoinSuccess(m.WireData(true)))
	m.EnqueueState(true)
	return true
}

// LeaveMatch removes p from their match, transferring host or disposing
// the room as occupancy dictates.
func (s *Server) LeaveMatch(p *Player) {
	m := p.Match()
	if m == nil {
		return
	}
	p.setMatch(nil)

	wasHost := m.IsHost(p)
	remaining := m.Leave(p)
	s.LeaveChannel(p, m.Chat, true)
	m.abortTimerIfHostLeft(p.ID)

	if remaining == 0 && !m.HasAnyTourneyClient() {
		s.DisposeMatch(m)
		return
	}
	if wasHost && remaining > 0 {
		m.transferHostToFirstOccupied()
	}
	m.EnqueueState(true)
}

// DisposeMatch tears the room down and tells the lobby.
func (s *Server) DisposeMatch(m *Match) {
	m.StopTimer()
	s.Matches.release(m.ID)
	if ch := s.Channels.GetByRealName(m.Chat.RealName); ch != nil {
		s.Channels.Remove(ch)
	}

	frame := serverpackets.DisposeMatch(int32(m.ID))
	for _, p := range s.Sessions.All() {
		if p.InLobby() {
			p.Enqueue(frame)
		}
	}
	s.log.Info("match disposed", "match", m.ID)
}

// InviteToMatch sends a clickable match invite from p to the target.
func (s *Server) InviteToMatch(p *Player, targetID int32) {
	m := p.Match()
	if m == nil {
		return
	}
	target := s.Sessions.GetByID(targetID)
	if target == nil {
		return
	}
	if target.IsBot {
		s.SendBotPrivate(p, "I'm flattered, but I can't play.")
		return
	}
	if target.HasBlocked(p.ID) {
		return
	}
	text := fmt.Sprintf("Come join my game: [osump://%d/%s %s].",
		m.ID, m.Password(), m.Name())
	target.Enqueue(serverpackets.MatchInvite(p.Name, text, target.Name, p.ID))
}
