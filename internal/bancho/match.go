package bancho

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/gosu/internal/bancho/packet"
	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

// WinCondition selects the scalar matches are decided on.
type WinCondition uint8

const (
	WinConditionScore WinCondition = iota
	WinConditionAccuracy
	WinConditionCombo
	WinConditionScoreV2
)

// TeamType is the match's team layout.
type TeamType uint8

const (
	TeamTypeHeadToHead TeamType = iota
	TeamTypeTagCoop
	TeamTypeTeamVS
	TeamTypeTagTeamVS
)

// teamed reports whether the layout uses the blue/red teams.
func (t TeamType) teamed() bool {
	return t == TeamTypeTeamVS || t == TeamTypeTagTeamVS
}

// MaxMatchNameLen bounds client-supplied match names.
const MaxMatchNameLen = 50

// matchTimer is an armed start timer. nil on the match means not starting.
type matchTimer struct {
	cancel context.CancelFunc
	at     time.Time
	hostID int32
}

// startAlertLadder is the seconds-before-start at which chat alerts fire.
var startAlertLadder = []int{60, 30, 10, 5, 4, 3, 2, 1}

// Match is one 16-slot multiplayer room.
type Match struct {
	ID   uint16
	srv  *Server
	Chat *Channel

	mu         sync.Mutex
	name       string
	password   string
	inProgress bool

	mapID   int32
	mapMD5  string
	mapName string
	// prevMapID remembers the map before a "no map yet" (-1) change.
	prevMapID int32

	mode         Mode
	mods         Mods
	freemods     bool
	winCondition WinCondition
	teamType     TeamType
	seed         int32

	hostID   int32
	referees map[int32]struct{}
	slots    [packet.MaxSlots]Slot

	startTimer *matchTimer

	// tourneyClients observe the match through tourney sessions and do
	// not occupy a slot.
	tourneyClients map[int32]struct{}

	// poolMaps is the loaded mappool, keyed by pick. nil when no pool
	// is loaded.
	poolMaps map[poolBan]int32

	scrim scrimState
}

func newMatch(id uint16, srv *Server) *Match {
	m := &Match{
		ID:             id,
		srv:            srv,
		referees:       make(map[int32]struct{}),
		tourneyClients: make(map[int32]struct{}),
		prevMapID:      -1,
	}
	for i := range m.slots {
		m.slots[i] = Slot{Status: SlotOpen}
	}
	m.scrim.reset()
	return m
}

// Name returns the match name.
func (m *Match) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.name
}

// Password returns the match password.
func (m *Match) Password() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.password
}

// SetPassword replaces the password and pushes the change to members.
func (m *Match) SetPassword(pw string) {
	m.mu.Lock()
	m.password = pw
	m.mu.Unlock()
	m.Chat.SendSelective(serverpackets.MatchChangePassword(pw), m.Players())
	m.EnqueueState(true)
}

// HostID returns the current host's user id.
func (m *Match) HostID() int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hostID
}

// InProgress reports whether gameplay is running.
func (m *Match) InProgress() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inProgress
}

// MapID returns the selected map id (-1 = no map yet).
func (m *Match) MapID() int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapID
}

// MapMD5 returns the selected map md5.
func (m *Match) MapMD5() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mapMD5
}

// Mode returns the match gameplay mode.
func (m *Match) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// IsHost reports whether p is the current host.
func (m *Match) IsHost(p *Player) bool {
	return m.HostID() == p.ID
}

// IsReferee reports whether p may run match commands: explicit referees,
// the host, and tournament managers.
func (m *Match) IsReferee(p *Player) bool {
	if p.Privileges().HasAny(PrivTournament) {
		return true
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hostID == p.ID {
		return true
	}
	_, ok := m.referees[p.ID]
	return ok
}

// AddReferee grants match-command privileges.
func (m *Match) AddReferee(id int32) {
	m.mu.Lock()
	m.referees[id] = struct{}{}
	m.mu.Unlock()
}

// RemoveReferee revokes explicit referee status.
func (m *Match) RemoveReferee(id int32) {
	m.mu.Lock()
	delete(m.referees, id)
	m.mu.Unlock()
}

// AddTourneyClient registers a tourney observer session.
func (m *Match) AddTourneyClient(id int32) {
	m.mu.Lock()
	m.tourneyClients[id] = struct{}{}
	m.mu.Unlock()
}

// RemoveTourneyClient unregisters a tourney observer session.
func (m *Match) RemoveTourneyClient(id int32) {
	m.mu.Lock()
	delete(m.tourneyClients, id)
	m.mu.Unlock()
}

// HasAnyTourneyClient reports whether any tourney session observes the
// match; such rooms outlive their last player.
func (m *Match) HasAnyTourneyClient() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tourneyClients) > 0
}

// HasTourneyClient reports whether id observes this match.
func (m *Match) HasTourneyClient(id int32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tourneyClients[id]
	return ok
}

// Players returns every player currently occupying a slot.
func (m *Match) Players() []*Player {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersLocked()
}

func (m *Match) playersLocked() []*Player {
	out := make([]*Player, 0, packet.MaxSlots)
	for i := range m.slots {
		if m.slots[i].Player != nil && m.slots[i].HasPlayer() {
			out = append(out, m.slots[i].Player)
		}
	}
	return out
}

// SlotOf returns the slot index holding p, or -1.
func (m *Match) SlotOf(p *Player) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slotOfLocked(p)
}

func (m *Match) slotOfLocked(p *Player) int {
	for i := range m.slots {
		if m.slots[i].Player == p {
			return i
		}
	}
	return -1
}

// SlotView returns a copy of slot i.
func (m *Match) SlotView(i int) Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[i]
}

// WireData snapshots the match in its wire form. The password is
// replaced with a marker when redacted so the client still renders the
// lock icon for protected rooms.
func (m *Match) WireData(includePassword bool) packet.MatchData {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := packet.MatchData{
		ID:           m.ID,
		InProgress:   m.inProgress,
		Mods:         int32(m.mods),
		Name:         m.name,
		MapName:      m.mapName,
		MapID:        m.mapID,
		MapMD5:       m.mapMD5,
		HostID:       m.hostID,
		Mode:         uint8(m.mode),
		WinCondition: uint8(m.winCondition),
		TeamType:     uint8(m.teamType),
		Freemods:     m.freemods,
		Seed:         m.seed,
	}
	if includePassword || m.password == "" {
		d.Password = m.password
	} else {
		d.Password = " "
	}
	for i := range m.slots {
		d.SlotStatuses[i] = uint8(m.slots[i].Status)
		d.SlotTeams[i] = uint8(m.slots[i].Team)
		if m.slots[i].Player != nil {
			d.SlotIDs[i] = m.slots[i].Player.ID
		}
		d.SlotMods[i] = int32(m.slots[i].Mods)
	}
	return d
}

// EnqueueState broadcasts an UPDATE_MATCH to everyone in the match chat
// (with password) and, when lobby is set, a redacted copy to `#lobby`.
func (m *Match) EnqueueState(lobby bool) {
	full := serverpackets.UpdateMatch(m.WireData(true))
	for _, member := range m.Chat.Members() {
		member.Enqueue(full)
	}

	if !lobby {
		return
	}
	lobbyCh := m.srv.Channels.GetByRealName("#lobby")
	if lobbyCh == nil || lobbyCh.MemberCount() == 0 {
		return
	}
	redacted := serverpackets.UpdateMatch(m.WireData(false))
	for _, member := range lobbyCh.Members() {
		member.Enqueue(redacted)
	}
}

// sendBot drops a bot line into the match chat.
func (m *Match) sendBot(text string) {
	m.srv.SendBotMessage(m.Chat, text)
}

// firstOpenSlot returns the first joinable slot index, or -1.
func (m *Match) firstOpenSlot() int {
	for i := range m.slots {
		if m.slots[i].Empty() {
			return i
		}
	}
	return -1
}

// occupy seats p in slot i.
func (m *Match) occupy(p *Player, i int) {
	m.slots[i].Status = SlotNotReady
	m.slots[i].Player = p
	if m.teamType.teamed() {
		m.slots[i].Team = TeamRed
	} else {
		m.slots[i].Team = TeamNeutral
	}
}

// Join seats p. Returns false when no slot is free.
func (m *Match) Join(p *Player) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.firstOpenSlot()
	if i == -1 {
		return false
	}
	m.occupy(p, i)
	return true
}

// Leave removes p from their slot. Returns the remaining player count.
// Host transfer on departure is the caller's concern (Server.LeaveMatch),
// which also handles destruction at zero occupancy.
func (m *Match) Leave(p *Player) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.slotOfLocked(p); i != -1 {
		m.slots[i].Reset(SlotOpen)
	}
	return len(m.playersLocked())
}

// ChangeSlot moves p into target slot newID if it is open.
func (m *Match) ChangeSlot(p *Player, newID int) {
	if newID < 0 || newID >= packet.MaxSlots {
		return
	}
	m.mu.Lock()
	cur := m.slotOfLocked(p)
	if cur == -1 || !m.slots[newID].Empty() {
		m.mu.Unlock()
		return
	}
	m.slots[newID].CopyFrom(&m.slots[cur])
	m.slots[cur].Reset(SlotOpen)
	m.mu.Unlock()
	m.EnqueueState(true)
}

// ToggleReady flips p's slot between not_ready and ready.
func (m *Match) ToggleReady(p *Player, ready bool) {
	m.mu.Lock()
	i := m.slotOfLocked(p)
	if i == -1 {
		m.mu.Unlock()
		return
	}
	switch {
	case ready && m.slots[i].Status == SlotNotReady:
		m.slots[i].Status = SlotReady
	case !ready && m.slots[i].Status == SlotReady:
		m.slots[i].Status = SlotNotReady
	default:
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.EnqueueState(false)
}

// SetHasMap records whether p has the selected map.
func (m *Match) SetHasMap(p *Player, has bool) {
	m.mu.Lock()
	i := m.slotOfLocked(p)
	if i == -1 {
		m.mu.Unlock()
		return
	}
	if has {
		if m.slots[i].Status == SlotNoMap {
			m.slots[i].Status = SlotNotReady
		}
	} else {
		m.slots[i].Status = SlotNoMap
	}
	m.mu.Unlock()
	m.EnqueueState(false)
}

// LockSlot toggles a slot between open and locked (host/referee only).
// Locking an occupied slot kicks its occupant back to the first open slot
// is not done; the occupant simply loses the seat, matching the client.
func (m *Match) LockSlot(i int) {
	if i < 0 || i >= packet.MaxSlots {
		return
	}
	m.mu.Lock()
	s := &m.slots[i]
	if s.Player != nil && s.Player.ID == m.hostID {
		// never lock the host out of their own room
		m.mu.Unlock()
		return
	}
	if s.Status == SlotLocked {
		s.Reset(SlotOpen)
	} else {
		if s.Player != nil {
			s.Player.setMatch(nil)
		}
		s.Reset(SlotLocked)
	}
	m.mu.Unlock()
	m.EnqueueState(true)
}

// ChangeTeam flips p between blue and red in team modes.
func (m *Match) ChangeTeam(p *Player) {
	m.mu.Lock()
	if !m.teamType.teamed() {
		m.mu.Unlock()
		return
	}
	i := m.slotOfLocked(p)
	if i == -1 {
		m.mu.Unlock()
		return
	}
	if m.slots[i].Team == TeamBlue {
		m.slots[i].Team = TeamRed
	} else {
		m.slots[i].Team = TeamBlue
	}
	m.mu.Unlock()
	m.EnqueueState(false)
}

// ChangeMods applies a mod change from p. Under freemods non-host players
// set only their own slot mods; the host additionally sets the match's
// speed-changing mods. Without freemods only the host changes match mods.
func (m *Match) ChangeMods(p *Player, mods Mods) {
	m.mu.Lock()
	if m.freemods {
		if p.ID == m.hostID {
			m.mods = mods & ModSpeedChanging
		}
		if i := m.slotOfLocked(p); i != -1 {
			m.slots[i].Mods = mods &^ ModSpeedChanging
		}
	} else {
		if p.ID != m.hostID {
			m.mu.Unlock()
			return
		}
		m.mods = mods
	}
	m.mu.Unlock()
	m.EnqueueState(false)
}

// UnreadyAll returns every ready slot to not_ready.
func (m *Match) UnreadyAll() {
	m.mu.Lock()
	for i := range m.slots {
		if m.slots[i].Status == SlotReady {
			m.slots[i].Status = SlotNotReady
		}
	}
	m.mu.Unlock()
}

// ApplySettings applies a host MATCH_CHANGE_SETTINGS blob.
// Invalid client data (host mismatch upstream, overlong name) is ignored
// by the caller; scrim team-type changes are rejected with a chat hint.
func (m *Match) ApplySettings(d packet.MatchData) {
	m.mu.Lock()

	if d.Freemods != m.freemods {
		m.freemods = d.Freemods
		if d.Freemods {
			// match mods -> per-slot mods, speed-changing stay on the match
			slotMods := m.mods &^ ModSpeedChanging
			m.mods &= ModSpeedChanging
			for i := range m.slots {
				if m.slots[i].HasPlayer() {
					m.slots[i].Mods = slotMods
				}
			}
		} else {
			// host's slot mods + match speed mods become the match mods
			if i := m.hostSlotLocked(); i != -1 {
				m.mods = m.mods&ModSpeedChanging | m.slots[i].Mods
			}
			for i := range m.slots {
				m.slots[i].Mods = 0
			}
		}
	}

	if d.MapID == -1 {
		// host is previewing a new map; unready everyone and remember
		// where we came from. A second "no map" change keeps the original
		// previous id rather than overwriting it with -1.
		for i := range m.slots {
			if m.slots[i].Status == SlotReady {
				m.slots[i].Status = SlotNotReady
			}
		}
		if m.mapID != -1 {
			m.prevMapID = m.mapID
		}
		m.mapID = -1
		m.mapMD5 = ""
		m.mapName = ""
	} else if m.mapID == -1 || d.MapMD5 != m.mapMD5 {
		m.mapID = d.MapID
		m.mapMD5 = d.MapMD5
		m.mapName = d.MapName
	}

	scrimTeamHint := false
	if TeamType(d.TeamType) != m.teamType {
		if m.scrim.active {
			scrimTeamHint = true
		} else {
			newType := TeamType(d.TeamType)
			var team Team
			if newType.teamed() {
				team = TeamRed
			} else {
				team = TeamNeutral
			}
			for i := range m.slots {
				if m.slots[i].HasPlayer() {
					m.slots[i].Team = team
				}
			}
			m.teamType = newType
		}
	}

	if WinCondition(d.WinCondition) != m.winCondition && !m.scrim.usePP {
		m.winCondition = WinCondition(d.WinCondition)
	}

	if d.Name != m.name && len(d.Name) <= MaxMatchNameLen {
		m.name = d.Name
	}
	m.mode = Mode(d.Mode)

	m.mu.Unlock()

	if scrimTeamHint {
		m.sendBot("Team type cannot be changed while scrimming; use !mp endscrim first.")
	}
	m.EnqueueState(true)
}

func (m *Match) hostSlotLocked() int {
	for i := range m.slots {
		if m.slots[i].Player != nil && m.slots[i].Player.ID == m.hostID {
			return i
		}
	}
	return -1
}

// TransferHost makes the occupant of slot i the host.
func (m *Match) TransferHost(i int) {
	if i < 0 || i >= packet.MaxSlots {
		return
	}
	m.mu.Lock()
	target := m.slots[i].Player
	if target == nil {
		m.mu.Unlock()
		return
	}
	m.hostID = target.ID
	m.mu.Unlock()

	target.Enqueue(serverpackets.MatchTransferHost())
	m.EnqueueState(true)
}

// transferHostToFirstOccupied promotes the first occupied slot after the
// host left. Returns false if the match is empty.
func (m *Match) transferHostToFirstOccupied() bool {
	m.mu.Lock()
	var target *Player
	for i := range m.slots {
		if m.slots[i].Player != nil && m.slots[i].HasPlayer() {
			target = m.slots[i].Player
			break
		}
	}
	if target == nil {
		m.mu.Unlock()
		return false
	}
	m.hostID = target.ID
	m.mu.Unlock()

	target.Enqueue(serverpackets.MatchTransferHost())
	m.EnqueueState(true)
	return true
}

// Start begins gameplay: occupied slots with the map go to playing, the
// rest sit the round out.
func (m *Match) Start() {
	m.mu.Lock()
	if m.inProgress {
		m.mu.Unlock()
		return
	}
	m.stopTimerLocked()

	var missing []int32
	for i := range m.slots {
		if !m.slots[i].HasPlayer() {
			continue
		}
		if m.slots[i].Status == SlotNoMap {
			missing = append(missing, m.slots[i].Player.ID)
			continue
		}
		m.slots[i].Status = SlotPlaying
		m.slots[i].Loaded = false
		m.slots[i].Skipped = false
	}
	m.inProgress = true
	if m.scrim.active {
		m.scrim.roundStart = time.Now()
	}
	m.mu.Unlock()

	frame := serverpackets.MatchStart(m.WireData(true))
	for _, p := range m.Players() {
		skip := false
		for _, id := range missing {
			if p.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			p.Enqueue(frame)
		}
	}
	m.EnqueueState(true)
}

// Abort cancels the ongoing play and returns every playing slot to
// not_ready.
func (m *Match) Abort() {
	m.mu.Lock()
	if !m.inProgress {
		m.mu.Unlock()
		return
	}
	for i := range m.slots {
		if m.slots[i].Status == SlotPlaying {
			m.slots[i].Status = SlotNotReady
			m.slots[i].Loaded = false
			m.slots[i].Skipped = false
		}
	}
	m.inProgress = false
	m.mu.Unlock()

	frame := serverpackets.MatchAbort()
	for _, p := range m.Players() {
		p.Enqueue(frame)
	}
	m.EnqueueState(true)
}

// SetLoaded records that p's client finished loading; when every playing
// slot is loaded the all-players-loaded frame goes out.
func (m *Match) SetLoaded(p *Player) {
	m.mu.Lock()
	i := m.slotOfLocked(p)
	if i == -1 || m.slots[i].Status != SlotPlaying {
		m.mu.Unlock()
		return
	}
	m.slots[i].Loaded = true
	allLoaded := true
	for j := range m.slots {
		if m.slots[j].Status == SlotPlaying && !m.slots[j].Loaded {
			allLoaded = false
			break
		}
	}
	players := m.playersLocked()
	m.mu.Unlock()

	if allLoaded {
		frame := serverpackets.MatchAllPlayersLoaded()
		for _, pl := range players {
			pl.Enqueue(frame)
		}
	}
}

// SetSkipped records p's intro skip request; when every playing slot has
// skipped the skip frame goes out.
func (m *Match) SetSkipped(p *Player) {
	m.mu.Lock()
	i := m.slotOfLocked(p)
	if i == -1 || m.slots[i].Status != SlotPlaying {
		m.mu.Unlock()
		return
	}
	m.slots[i].Skipped = true
	skipFrame := serverpackets.MatchPlayerSkipped(p.ID)
	allSkipped := true
	playing := make([]*Player, 0, packet.MaxSlots)
	for j := range m.slots {
		if m.slots[j].Status == SlotPlaying {
			playing = append(playing, m.slots[j].Player)
			if !m.slots[j].Skipped {
				allSkipped = false
			}
		}
	}
	m.mu.Unlock()

	for _, pl := range playing {
		pl.Enqueue(skipFrame)
	}
	if allSkipped {
		frame := serverpackets.MatchSkip()
		for _, pl := range playing {
			pl.Enqueue(frame)
		}
	}
}

// PlayerFailed relays an in-play fail to the other players.
func (m *Match) PlayerFailed(p *Player) {
	i := m.SlotOf(p)
	if i == -1 {
		return
	}
	frame := serverpackets.MatchPlayerFailed(int32(i))
	for _, pl := range m.Players() {
		pl.Enqueue(frame)
	}
}

// RelayScoreFrame forwards a score frame to everyone else, with the slot
// id rewritten to the sender's slot.
func (m *Match) RelayScoreFrame(p *Player, sf packet.ScoreFrame) {
	i := m.SlotOf(p)
	if i == -1 {
		return
	}
	sf.ID = uint8(i)
	frame := serverpackets.MatchScoreUpdate(sf)
	for _, pl := range m.Players() {
		if pl != p {
			pl.Enqueue(frame)
		}
	}
}

// PlayerComplete marks p's play finished; when the last playing slot
// completes, the match returns to setup and scrim scoring (if armed)
// takes over.
func (m *Match) PlayerComplete(p *Player) {
	m.mu.Lock()
	i := m.slotOfLocked(p)
	if i == -1 || m.slots[i].Status != SlotPlaying {
		m.mu.Unlock()
		slog.Warn("match complete from non-playing slot",
			"match", m.ID, "user", p.ID)
		return
	}
	m.slots[i].Status = SlotComplete

	anyPlaying := false
	for j := range m.slots {
		if m.slots[j].Status == SlotPlaying {
			anyPlaying = true
			break
		}
	}
	if anyPlaying {
		m.mu.Unlock()
		return
	}

	// round over: collect participants, reset slots, leave in_progress
	participants := make([]*Player, 0, packet.MaxSlots)
	teams := make(map[int32]Team, packet.MaxSlots)
	for j := range m.slots {
		if m.slots[j].Status == SlotComplete {
			participants = append(participants, m.slots[j].Player)
			teams[m.slots[j].Player.ID] = m.slots[j].Team
			m.slots[j].Status = SlotNotReady
		}
		m.slots[j].Loaded = false
		m.slots[j].Skipped = false
	}
	m.inProgress = false
	scrimming := m.scrim.active
	m.mu.Unlock()

	frame := serverpackets.MatchComplete()
	for _, pl := range participants {
		pl.Enqueue(frame)
	}
	m.EnqueueState(true)

	if scrimming {
		go m.awaitSubmissions(participants, teams)
	}
}

// StartTimer arms the start timer and the alert ladder.
func (m *Match) StartTimer(seconds int, by *Player) {
	m.mu.Lock()
	m.stopTimerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	m.startTimer = &matchTimer{
		cancel: cancel,
		at:     time.Now().Add(time.Duration(seconds) * time.Second),
		hostID: by.ID,
	}
	m.mu.Unlock()

	for _, alert := range startAlertLadder {
		if alert >= seconds {
			continue
		}
		go func(alert int) {
			select {
			case <-ctx.Done():
			case <-time.After(time.Duration(seconds-alert) * time.Second):
				if m.timerArmed() {
					m.sendBot(fmt.Sprintf("Match starting in %s.", plural(alert, "second")))
				}
			}
		}(alert)
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-time.After(time.Duration(seconds) * time.Second):
			if !m.timerArmed() {
				return
			}
			m.mu.Lock()
			m.startTimer = nil
			m.mu.Unlock()
			m.sendBot("Match starting now.")
			m.Start()
		}
	}()

	m.sendBot(fmt.Sprintf("Match will start in %s.", plural(seconds, "second")))
}

func (m *Match) timerArmed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startTimer != nil
}

// StopTimer cancels the pending start and every alert. Returns whether a
// timer was armed.
func (m *Match) StopTimer() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopTimerLocked()
}

func (m *Match) stopTimerLocked() bool {
	if m.startTimer == nil {
		return false
	}
	m.startTimer.cancel()
	m.startTimer = nil
	return true
}

// abortTimerIfHostLeft cancels the pending start when its requester left.
func (m *Match) abortTimerIfHostLeft(leftID int32) {
	m.mu.Lock()
	armed := m.startTimer != nil && m.startTimer.hostID == leftID
	if armed {
		m.stopTimerLocked()
	}
	m.mu.Unlock()
	if armed {
		m.sendBot("Match start aborted: the timer's owner left the match.")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
