package bancho

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartScrim_Validation(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)

	assert.Error(t, m.StartScrim(0, false))
	assert.Error(t, m.StartScrim(4, false), "best-of must be odd")
	assert.Error(t, m.StartScrim(17, false))
	assert.False(t, m.IsScrimming())

	require.NoError(t, m.StartScrim(7, false))
	assert.True(t, m.IsScrimming())

	m.EndScrim()
	assert.False(t, m.IsScrimming())
}

func TestSettleRound_AccruesPoints(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	require.NoError(t, m.StartScrim(5, false)) // first to 3

	m.settleRound(map[string]float64{"alice": 700000, "bob": 500000})
	assert.Equal(t, "alice: 1", m.Standing())
	assert.True(t, m.IsScrimming())

	m.settleRound(map[string]float64{"alice": 400000, "bob": 600000})
	assert.Equal(t, "alice: 1 | bob: 1", m.Standing())
}

func TestSettleRound_WinEndsScrim(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	require.NoError(t, m.StartScrim(1, false)) // first to 1

	m.settleRound(map[string]float64{"alice": 100, "bob": 50})
	assert.False(t, m.IsScrimming(), "reaching the winning point count ends the scrim")
}

func TestSettleRound_TieAwardsNothing(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	require.NoError(t, m.StartScrim(3, false))

	m.settleRound(map[string]float64{"alice": 100, "bob": 100})
	assert.Equal(t, "0 - 0", m.Standing())

	m.mu.Lock()
	winners := append([]string(nil), m.scrim.winners...)
	m.mu.Unlock()
	require.Len(t, winners, 1)
	assert.Empty(t, winners[0], "a tie is recorded as an empty winner")
}

func TestUndoLastPoint(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	require.NoError(t, m.StartScrim(5, false))

	m.UndoLastPoint() // nothing to undo yet

	m.settleRound(map[string]float64{"alice": 100, "bob": 50})
	require.Equal(t, "alice: 1", m.Standing())

	m.UndoLastPoint()
	assert.Equal(t, "alice: 0", m.Standing())

	// an undone tie removes the marker without touching points
	m.settleRound(map[string]float64{"alice": 100, "bob": 100})
	m.UndoLastPoint()
	m.mu.Lock()
	n := len(m.scrim.winners)
	m.mu.Unlock()
	assert.Zero(t, n)
}

func TestScrimKey_TeamVersusSolo(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)

	assert.Equal(t, "host", m.scrimKey(host, TeamRed), "head to head scores per player")

	d := m.WireData(true)
	d.TeamType = uint8(TeamTypeTeamVS)
	m.ApplySettings(d)
	assert.Equal(t, "Red", m.scrimKey(host, TeamRed))
	assert.Equal(t, "Blue", m.scrimKey(host, TeamBlue))
}

func TestScoreValue_FollowsWinCondition(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)

	score := &Score{Score: 700000, Accuracy: 98.5, MaxCombo: 1200, PP: 321}

	assert.Equal(t, float64(700000), m.scoreValue(score))

	m.mu.Lock()
	m.winCondition = WinConditionAccuracy
	m.mu.Unlock()
	assert.InDelta(t, 98.5, m.scoreValue(score), 0.001)

	m.mu.Lock()
	m.winCondition = WinConditionCombo
	m.mu.Unlock()
	assert.Equal(t, float64(1200), m.scoreValue(score))

	require.NoError(t, m.StartScrim(3, true))
	assert.Equal(t, float64(321), m.scoreValue(score), "pp scrims ignore the win condition")
}

func TestAwaitSubmissions_CountsSubmittedScores(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "alice")
	m := createTestMatch(t, s, host)
	bob := newTestPlayer(t, s, 3, "bob")
	require.True(t, s.JoinMatch(bob, m, ""))
	require.NoError(t, m.StartScrim(3, false))

	m.mu.Lock()
	m.scrim.roundStart = time.Now().Add(-time.Minute)
	md5 := m.mapMD5
	m.mu.Unlock()

	host.SetRecentScore(&Score{
		Mode: ModeStandard, MapMD5: md5, Score: 900000, ServerTime: time.Now(),
	})
	bob.SetRecentScore(&Score{
		Mode: ModeStandard, MapMD5: md5, Score: 300000, ServerTime: time.Now(),
	})

	teams := map[int32]Team{host.ID: TeamNeutral, bob.ID: TeamNeutral}
	m.awaitSubmissions([]*Player{host, bob}, teams)

	assert.Equal(t, "alice: 1", m.Standing())
}

func TestMpRematch_RestartAfterScrim(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	m := createTestMatch(t, s, host)
	require.NoError(t, m.StartScrim(3, false))
	m.settleRound(map[string]float64{"host": 100, "x": 50})

	// while scrimming, rematch undoes the last point
	res := s.commands.execute(host, m.Chat.RealName, "!mp rematch")
	assert.Empty(t, res.response)
	assert.Equal(t, "host: 0", m.Standing())

	m.EndScrim()
	res = s.commands.execute(host, m.Chat.RealName, "!mp rematch")
	assert.Empty(t, res.response)
	assert.True(t, m.IsScrimming(), "rematch after endscrim restarts the previous best-of")
}
