package bancho

import (
	"fmt"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

// spectatorChannel returns (creating on first use) the host's spectator
// instance channel.
func (s *Server) spectatorChannel(host *Player) *Channel {
	name := fmt.Sprintf("#spec_%d", host.ID)
	if ch := s.Channels.GetByRealName(name); ch != nil {
		return ch
	}
	ch := &Channel{
		RealName: name,
		Topic:    fmt.Sprintf("%s's spectator channel.", host.Name),
		AutoJoin: false,
		Instance: true,
	}
	s.Channels.Append(ch)
	return ch
}

// StartSpectating attaches p to host's spectator group. Watching someone
// new implicitly detaches from the previous host. Restricted spectators
// stay invisible to the host and the other watchers.
func (s *Server) StartSpectating(p *Player, host *Player) {
	if host == nil || host == p {
		return
	}
	if cur := p.Spectating(); cur != nil {
		if cur == host {
			// client re-sends on map changes; refresh the channel only
			s.JoinChannel(p, s.spectatorChannel(host))
			return
		}
		s.StopSpectating(p)
	}

	ch := s.spectatorChannel(host)
	s.JoinChannel(p, ch)
	if !host.InChannel(ch) {
		s.JoinChannel(host, ch)
	}

	host.addSpectator(p)
	p.setSpectating(host)

	if !p.Restricted() {
		host.Enqueue(serverpackets.SpectatorJoined(p.ID))
		joined := serverpackets.FellowSpectatorJoined(p.ID)
		for _, other := range host.Spectators() {
			if other != p {
				other.Enqueue(joined)
			}
		}
	}
	// the new watcher still learns about everyone already there
	for _, other := range host.Spectators() {
		if other != p && !other.Restricted() {
			p.Enqueue(serverpackets.FellowSpectatorJoined(other.ID))
		}
	}
	s.log.Debug("spectate started", "watcher", p.ID, "host", host.ID)
}

// StopSpectating detaches p from their host, dissolving the channel when
// the group empties.
func (s *Server) StopSpectating(p *Player) {
	host := p.Spectating()
	if host == nil {
		return
	}
	host.removeSpectator(p)
	p.setSpectating(nil)

	ch := s.Channels.GetByRealName(fmt.Sprintf("#spec_%d", host.ID))
	if ch != nil {
		s.LeaveChannel(p, ch, true)
	}

	if len(host.Spectators()) == 0 {
		if ch != nil && host.InChannel(ch) {
			s.LeaveChannel(host, ch, true)
		}
	}

	if !p.Restricted() {
		host.Enqueue(serverpackets.SpectatorLeft(p.ID))
		left := serverpackets.FellowSpectatorLeft(p.ID)
		for _, other := range host.Spectators() {
			other.Enqueue(left)
		}
	}
	s.log.Debug("spectate stopped", "watcher", p.ID, "host", host.ID)
}

// RelaySpectateFrames retransmits a replay bundle from the host to every
// watcher, verbatim.
func (s *Server) RelaySpectateFrames(host *Player, bundle []byte) {
	if len(host.Spectators()) == 0 {
		return
	}
	frame := serverpackets.SpectateFrames(bundle)
	for _, w := range host.Spectators() {
		w.Enqueue(frame)
	}
}

// SpectatorCantSpectate relays a watcher's missing-map state to the host
// and the rest of the group.
func (s *Server) SpectatorCantSpectate(p *Player) {
	host := p.Spectating()
	if host == nil {
		return
	}
	frame := serverpackets.SpectatorCantSpectate(p.ID)
	host.Enqueue(frame)
	for _, other := range host.Spectators() {
		other.Enqueue(frame)
	}
}
