package bancho

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// scorePollTimeout bounds how long a finished round waits for every
// participant's score submission before counting them as zero.
const (
	scorePollTimeout  = 10 * time.Second
	scorePollInterval = 500 * time.Millisecond
)

// poolBan identifies a banned mappool pick.
type poolBan struct {
	Mods Mods
	Slot int
}

// scrimState is per-match scrim bookkeeping, guarded by the match mutex.
type scrimState struct {
	active     bool
	bestOf     int
	winningPts int
	// usePP scores rounds on performance points instead of the match's
	// win condition.
	usePP bool
	// points maps team name (team modes) or player name to map wins.
	points map[string]int
	// winners records each map's winner in order; "" marks a tie. Used
	// to undo miscounted maps.
	winners []string
	bans    map[poolBan]struct{}
	// pool is the loaded mappool id, 0 when none.
	poolID   int32
	poolName string
	// roundStart is when the last map started, for score freshness.
	roundStart time.Time
}

func (sc *scrimState) reset() {
	sc.active = false
	sc.bestOf = 0
	sc.winningPts = 0
	sc.usePP = false
	sc.points = make(map[string]int)
	sc.winners = nil
	sc.bans = make(map[poolBan]struct{})
}

// StartScrim arms first-to-N scoring. bestOf must be odd and in [1, 15].
func (m *Match) StartScrim(bestOf int, usePP bool) error {
	if bestOf < 1 || bestOf > 15 || bestOf%2 == 0 {
		return fmt.Errorf("best-of must be an odd number between 1 and 15, got %d", bestOf)
	}
	m.mu.Lock()
	m.scrim.reset()
	m.scrim.active = true
	m.scrim.bestOf = bestOf
	m.scrim.winningPts = bestOf/2 + 1
	m.scrim.usePP = usePP
	m.mu.Unlock()

	m.sendBot(fmt.Sprintf("A scrimmage has been started (first to %d)!", bestOf/2+1))
	return nil
}

// EndScrim disarms scrim scoring. The best-of is kept so a later
// "!mp rematch" can restart with the same format.
func (m *Match) EndScrim() {
	m.mu.Lock()
	prev := m.scrim.bestOf
	m.scrim.reset()
	m.scrim.bestOf = prev
	m.mu.Unlock()
	m.sendBot("Scrimmage ended.")
}

// IsScrimming reports whether scrim scoring is armed.
func (m *Match) IsScrimming() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrim.active
}

// scrimKey is what a participant scores for: their team in team modes,
// themselves otherwise.
func (m *Match) scrimKey(p *Player, team Team) string {
	if m.teamType.teamed() {
		return team.String()
	}
	return p.Name
}

// scoreValue extracts the round scalar from a submitted score.
func (m *Match) scoreValue(s *Score) float64 {
	if m.scrim.usePP {
		return float64(s.PP)
	}
	switch m.winCondition {
	case WinConditionAccuracy:
		return float64(s.Accuracy)
	case WinConditionCombo:
		return float64(s.MaxCombo)
	default: // score and score v2 both submit plain score
		return float64(s.Score)
	}
}

// awaitSubmissions runs after a scrimmed map completes: it waits for each
// participant's score to land, totals them per scrim key, announces the
// map winner and advances the match points. Runs outside the match lock
// on its own goroutine.
func (m *Match) awaitSubmissions(participants []*Player, teams map[int32]Team) {
	m.mu.Lock()
	mode := m.mode
	mapMD5 := m.mapMD5
	roundStart := m.scrim.roundStart
	m.mu.Unlock()

	deadline := time.Now().Add(scorePollTimeout)
	scores := make(map[int32]*Score, len(participants))

	for time.Now().Before(deadline) && len(scores) < len(participants) {
		for _, p := range participants {
			if _, done := scores[p.ID]; done {
				continue
			}
			s := p.RecentScore(mode)
			if s != nil && s.MapMD5 == mapMD5 && s.ServerTime.After(roundStart) {
				scores[p.ID] = s
			}
		}
		if len(scores) < len(participants) {
			time.Sleep(scorePollInterval)
		}
	}

	totals := make(map[string]float64)
	for _, p := range participants {
		key := m.scrimKeyFor(p, teams[p.ID])
		s, ok := scores[p.ID]
		if !ok {
			m.sendBot(fmt.Sprintf("%s has yet to submit a score; counting as zero.", p.Name))
			totals[key] += 0
			continue
		}
		totals[key] += m.scoreValueFor(s)
	}

	m.settleRound(totals)
}

func (m *Match) scrimKeyFor(p *Player, team Team) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrimKey(p, team)
}

func (m *Match) scoreValueFor(s *Score) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scoreValue(s)
}

// settleRound turns the per-key totals into a map result.
func (m *Match) settleRound(totals map[string]float64) {
	if len(totals) == 0 {
		return
	}

	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return totals[keys[i]] > totals[keys[j]] })

	winner := keys[0]
	tie := len(keys) > 1 && totals[keys[0]] == totals[keys[1]]

	m.mu.Lock()
	if !m.scrim.active {
		m.mu.Unlock()
		return
	}
	if tie {
		m.scrim.winners = append(m.scrim.winners, "")
	} else {
		m.scrim.points[winner]++
		m.scrim.winners = append(m.scrim.winners, winner)
	}
	pts := m.scrim.points[winner]
	winning := m.scrim.winningPts
	standing := m.standingLocked()
	m.mu.Unlock()

	if tie {
		m.sendBot(fmt.Sprintf("The point is tied at %s a piece!", formatTotal(totals[keys[0]])))
		return
	}

	if pts >= winning {
		m.sendBot(fmt.Sprintf("%s takes the match! Congratulations! Final score: %s.", winner, standing))
		m.EndScrim()
		return
	}
	m.sendBot(fmt.Sprintf("%s takes the point! Current score: %s.", winner, standing))
}

// UndoLastPoint reverses the most recent map result.
func (m *Match) UndoLastPoint() {
	m.mu.Lock()
	if !m.scrim.active || len(m.scrim.winners) == 0 {
		m.mu.Unlock()
		m.sendBot("No map points to undo.")
		return
	}
	last := m.scrim.winners[len(m.scrim.winners)-1]
	m.scrim.winners = m.scrim.winners[:len(m.scrim.winners)-1]
	if last != "" {
		m.scrim.points[last]--
	}
	standing := m.standingLocked()
	m.mu.Unlock()

	if last == "" {
		m.sendBot("Undid the tied map. Current score: " + standing + ".")
		return
	}
	m.sendBot(fmt.Sprintf("Undid %s's point. Current score: %s.", last, standing))
}

// Standing formats the current scrim score for chat.
func (m *Match) Standing() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.standingLocked()
}

func (m *Match) standingLocked() string {
	if len(m.scrim.points) == 0 {
		return "0 - 0"
	}
	keys := make([]string, 0, len(m.scrim.points))
	for k := range m.scrim.points {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, m.scrim.points[k]))
	}
	return strings.Join(parts, " | ")
}

func formatTotal(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
