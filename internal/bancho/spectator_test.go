package bancho

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

func TestStartSpectating(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	watcher := newTestPlayer(t, s, 3, "watcher")
	drainOpcodes(t, host)

	s.StartSpectating(watcher, host)

	require.Same(t, host, watcher.Spectating())
	require.Len(t, host.Spectators(), 1)

	ch := s.Channels.GetByRealName(fmt.Sprintf("#spec_%d", host.ID))
	require.NotNil(t, ch, "spectating creates the host's instance channel")
	assert.True(t, ch.HasMember(watcher))
	assert.True(t, ch.HasMember(host))

	assert.True(t, containsOpcode(drainOpcodes(t, host), serverpackets.OpcodeSpectatorJoined))
}

func TestStartSpectating_SelfAndNilIgnored(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "p")

	s.StartSpectating(p, nil)
	s.StartSpectating(p, p)
	assert.Nil(t, p.Spectating())
}

func TestStartSpectating_FellowsIntroduced(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	first := newTestPlayer(t, s, 3, "first")
	second := newTestPlayer(t, s, 4, "second")

	s.StartSpectating(first, host)
	drainOpcodes(t, first)

	s.StartSpectating(second, host)

	assert.True(t, containsOpcode(drainOpcodes(t, first), serverpackets.OpcodeFellowSpectatorJoined),
		"existing watchers learn about the newcomer")
	assert.True(t, containsOpcode(drainOpcodes(t, second), serverpackets.OpcodeFellowSpectatorJoined),
		"the newcomer learns about existing watchers")
}

func TestStartSpectating_SwitchingHostsDetaches(t *testing.T) {
	s := newTestServer(t)
	first := newTestPlayer(t, s, 2, "first")
	second := newTestPlayer(t, s, 3, "second")
	watcher := newTestPlayer(t, s, 4, "watcher")

	s.StartSpectating(watcher, first)
	s.StartSpectating(watcher, second)

	assert.Same(t, second, watcher.Spectating())
	assert.Empty(t, first.Spectators())
	assert.Nil(t, s.Channels.GetByRealName(fmt.Sprintf("#spec_%d", first.ID)),
		"the abandoned group's channel dissolves")
}

func TestStopSpectating_LastWatcherDissolvesChannel(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	watcher := newTestPlayer(t, s, 3, "watcher")

	s.StartSpectating(watcher, host)
	drainOpcodes(t, host)

	s.StopSpectating(watcher)

	assert.Nil(t, watcher.Spectating())
	assert.Empty(t, host.Spectators())
	assert.Nil(t, s.Channels.GetByRealName(fmt.Sprintf("#spec_%d", host.ID)))
	assert.True(t, containsOpcode(drainOpcodes(t, host), serverpackets.OpcodeSpectatorLeft))
}

func TestStopSpectating_NotSpectatingIsNoop(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(t, s, 2, "p")
	s.StopSpectating(p)
}

func TestRelaySpectateFrames(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	watcher := newTestPlayer(t, s, 3, "watcher")
	s.StartSpectating(watcher, host)
	drainOpcodes(t, watcher)

	s.RelaySpectateFrames(host, []byte{1, 2, 3})
	assert.True(t, containsOpcode(drainOpcodes(t, watcher), serverpackets.OpcodeSpectateFrames))

	// no watchers, nothing sent
	s.StopSpectating(watcher)
	drainOpcodes(t, watcher)
	s.RelaySpectateFrames(host, []byte{1, 2, 3})
	assert.Empty(t, drainOpcodes(t, watcher))
}

func TestSpectatorCantSpectate(t *testing.T) {
	s := newTestServer(t)
	host := newTestPlayer(t, s, 2, "host")
	watcher := newTestPlayer(t, s, 3, "watcher")
	s.StartSpectating(watcher, host)
	drainOpcodes(t, host)

	s.SpectatorCantSpectate(watcher)
	assert.True(t, containsOpcode(drainOpcodes(t, host), serverpackets.OpcodeSpectatorCantSpectate))
}
