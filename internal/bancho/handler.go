package bancho

import (
	"context"
	"fmt"
	"time"

	"github.com/udisondev/gosu/internal/bancho/clientpackets"
	"github.com/udisondev/gosu/internal/bancho/packet"
	"github.com/udisondev/gosu/internal/bancho/serverpackets"
	"github.com/udisondev/gosu/internal/db"
)

// restrictedAllowed is the packet set restricted sessions may still use.
var restrictedAllowed = map[uint16]struct{}{
	clientpackets.OpcodePing:                  {},
	clientpackets.OpcodeChangeAction:          {},
	clientpackets.OpcodeLogout:                {},
	clientpackets.OpcodeRequestStatusUpdate:   {},
	clientpackets.OpcodeUserStatsRequest:      {},
	clientpackets.OpcodeChannelJoin:           {},
	clientpackets.OpcodeChannelPart:           {},
	clientpackets.OpcodeReceiveUpdates:        {},
	clientpackets.OpcodeUserPresenceRequest:   {},
	clientpackets.OpcodeToggleBlockNonFriendDMs: {},
}

// HandlePackets processes one request body: every well-formed frame is
// dispatched, the rest of the stream is dropped on the first parse error,
// and the session's pending bytes become the response.
func (s *Server) HandlePackets(p *Player, body []byte) []byte {
	r := packet.NewReader(body)
	for r.Remaining() > 0 {
		f, err := r.ReadFrame()
		if err != nil {
			s.log.Warn("truncated packet stream", "user", p.ID, "err", err)
			break
		}
		p.TouchRecv()

		if p.Restricted() {
			if _, ok := restrictedAllowed[f.ID]; !ok {
				continue
			}
		}
		s.dispatch(p, f)
	}
	return p.Dequeue()
}

func (s *Server) dispatch(p *Player, f packet.Frame) {
	switch f.ID {
	case clientpackets.OpcodePing:
		// the response drain is the pong

	case clientpackets.OpcodeChangeAction:
		s.handleChangeAction(p, f.Payload)
	case clientpackets.OpcodeSendPublicMessage:
		if msg, err := clientpackets.ParseMessage(f.Payload); err == nil {
			s.HandlePublicMessage(p, msg.Recipient, msg.Text)
		}
	case clientpackets.OpcodeSendPrivateMessage:
		if msg, err := clientpackets.ParseMessage(f.Payload); err == nil {
			s.HandlePrivateMessage(p, msg.Recipient, msg.Text)
		}
	case clientpackets.OpcodeLogout:
		// the client fires a spurious logout right after login while the
		// UI restarts; honor it only once the session has settled
		if time.Since(p.LoginTime) >= time.Duration(s.cfg.Timeouts.MinLogoutAge)*time.Second {
			s.Logout(p)
		}
	case clientpackets.OpcodeRequestStatusUpdate:
		p.Enqueue(serverpackets.UserStats(s.StatsFor(p)))

	case clientpackets.OpcodeStartSpectating:
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			s.StartSpectating(p, s.Sessions.GetByID(id))
		}
	case clientpackets.OpcodeStopSpectating:
		s.StopSpectating(p)
	case clientpackets.OpcodeSpectateFrames:
		s.RelaySpectateFrames(p, f.Payload)
	case clientpackets.OpcodeCantSpectate:
		s.SpectatorCantSpectate(p)

	case clientpackets.OpcodeJoinLobby:
		s.handleJoinLobby(p)
	case clientpackets.OpcodePartLobby:
		p.SetInLobby(false)
		if ch := s.Channels.GetByRealName("#lobby"); ch != nil {
			s.LeaveChannel(p, ch, false)
		}

	case clientpackets.OpcodeCreateMatch:
		s.handleCreateMatch(p, f.Payload)
	case clientpackets.OpcodeJoinMatch:
		if jm, err := clientpackets.ParseJoinMatch(f.Payload); err == nil {
			if m := s.Matches.Get(uint16(jm.MatchID)); m != nil {
				s.JoinMatch(p, m, jm.Password)
			} else {
				p.Enqueue(serverpackets.MatchJoinFail())
			}
		}
	case clientpackets.OpcodePartMatch:
		s.LeaveMatch(p)

	case clientpackets.OpcodeMatchChangeSlot:
		if m := p.Match(); m != nil {
			if i, err := clientpackets.ParseInt(f.Payload); err == nil {
				m.ChangeSlot(p, int(i))
			}
		}
	case clientpackets.OpcodeMatchReady:
		if m := p.Match(); m != nil {
			m.ToggleReady(p, true)
		}
	case clientpackets.OpcodeMatchNotReady:
		if m := p.Match(); m != nil {
			m.ToggleReady(p, false)
		}
	case clientpackets.OpcodeMatchLock:
		if m := p.Match(); m != nil && m.IsHost(p) {
			if i, err := clientpackets.ParseInt(f.Payload); err == nil {
				m.LockSlot(int(i))
			}
		}
	case clientpackets.OpcodeMatchChangeSettings:
		if m := p.Match(); m != nil && m.IsHost(p) {
			if d, err := clientpackets.ParseMatchData(f.Payload); err == nil {
				m.ApplySettings(d)
			}
		}
	case clientpackets.OpcodeMatchStart:
		if m := p.Match(); m != nil && m.IsHost(p) {
			m.Start()
		}
	case clientpackets.OpcodeMatchScoreUpdate:
		if m := p.Match(); m != nil {
			if sf, err := clientpackets.ParseScoreFrame(f.Payload); err == nil {
				m.RelayScoreFrame(p, sf)
			}
		}
	case clientpackets.OpcodeMatchComplete:
		if m := p.Match(); m != nil {
			m.PlayerComplete(p)
		}
	case clientpackets.OpcodeMatchChangeMods:
		if m := p.Match(); m != nil {
			if mods, err := clientpackets.ParseInt(f.Payload); err == nil {
				m.ChangeMods(p, Mods(mods))
			}
		}
	case clientpackets.OpcodeMatchLoadComplete:
		if m := p.Match(); m != nil {
			m.SetLoaded(p)
		}
	case clientpackets.OpcodeMatchNoBeatmap:
		if m := p.Match(); m != nil {
			m.SetHasMap(p, false)
		}
	case clientpackets.OpcodeMatchHasBeatmap:
		if m := p.Match(); m != nil {
			m.SetHasMap(p, true)
		}
	case clientpackets.OpcodeMatchFailed:
		if m := p.Match(); m != nil {
			m.PlayerFailed(p)
		}
	case clientpackets.OpcodeMatchSkipRequest:
		if m := p.Match(); m != nil {
			m.SetSkipped(p)
		}
	case clientpackets.OpcodeMatchTransferHost:
		if m := p.Match(); m != nil && m.IsHost(p) {
			if i, err := clientpackets.ParseInt(f.Payload); err == nil {
				m.TransferHost(int(i))
			}
		}
	case clientpackets.OpcodeMatchChangeTeam:
		if m := p.Match(); m != nil {
			m.ChangeTeam(p)
		}
	case clientpackets.OpcodeMatchInvite:
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			s.InviteToMatch(p, id)
		}

	case clientpackets.OpcodeChannelJoin:
		if name, err := clientpackets.ParseString(f.Payload); err == nil {
			if ch := s.resolveChannel(p, name); ch != nil {
				s.JoinChannel(p, ch)
			} else {
				s.log.Warn("join of unknown channel", "user", p.ID, "channel", name)
			}
		}
	case clientpackets.OpcodeChannelPart:
		if name, err := clientpackets.ParseString(f.Payload); err == nil {
			if ch := s.resolveChannel(p, name); ch != nil {
				s.LeaveChannel(p, ch, false)
			}
		}

	case clientpackets.OpcodeFriendAdd:
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			s.handleFriendChange(p, id, true)
		}
	case clientpackets.OpcodeFriendRemove:
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			s.handleFriendChange(p, id, false)
		}

	case clientpackets.OpcodeReceiveUpdates:
		if v, err := clientpackets.ParseInt(f.Payload); err == nil && v >= 0 && v <= 2 {
			p.SetPresenceFilter(PresenceFilter(v))
		}
	case clientpackets.OpcodeSetAwayMessage:
		if msg, err := clientpackets.ParseMessage(f.Payload); err == nil {
			p.SetAwayMessage(msg.Text)
			if msg.Text == "" {
				s.SendBotPrivate(p, "You are no longer marked as away.")
			} else {
				s.SendBotPrivate(p, "You are now marked as away: "+msg.Text)
			}
		}
	case clientpackets.OpcodeUserStatsRequest:
		if ids, err := clientpackets.ParseIntList(f.Payload); err == nil {
			for _, id := range ids {
				if other := s.Sessions.GetByID(id); other != nil && (!other.Restricted() || other == p) {
					p.Enqueue(serverpackets.UserStats(s.StatsFor(other)))
				}
			}
		}
	case clientpackets.OpcodeUserPresenceRequest:
		if ids, err := clientpackets.ParseIntList(f.Payload); err == nil {
			for _, id := range ids {
				if other := s.Sessions.GetByID(id); other != nil && !other.Restricted() {
					p.Enqueue(serverpackets.UserPresence(s.PresenceFor(other)))
				}
			}
		}
	case clientpackets.OpcodeUserPresenceRequestAll:
		for _, other := range s.Sessions.Unrestricted() {
			p.Enqueue(serverpackets.UserPresence(s.PresenceFor(other)))
		}
	case clientpackets.OpcodeToggleBlockNonFriendDMs:
		if v, err := clientpackets.ParseInt(f.Payload); err == nil {
			p.SetPMFriendsOnly(v == 1)
		}
	case clientpackets.OpcodeUserChangePassword:
		s.SendBotPrivate(p,
			fmt.Sprintf("Passwords are managed on the website: https://%s/settings", s.cfg.Domain))

	case clientpackets.OpcodeTournamentMatchInfo:
		if !p.Privileges().HasAny(PrivTournament) {
			return
		}
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			if m := s.Matches.Get(uint16(id)); m != nil {
				p.Enqueue(serverpackets.UpdateMatch(m.WireData(false)))
			}
		}
	case clientpackets.OpcodeTournamentJoinChannel:
		if !p.Privileges().HasAny(PrivTournament) {
			return
		}
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			if m := s.Matches.Get(uint16(id)); m != nil {
				m.AddTourneyClient(p.ID)
				s.JoinChannel(p, m.Chat)
			}
		}
	case clientpackets.OpcodeTournamentLeaveChannel:
		if !p.Privileges().HasAny(PrivTournament) {
			return
		}
		if id, err := clientpackets.ParseInt(f.Payload); err == nil {
			if m := s.Matches.Get(uint16(id)); m != nil {
				m.RemoveTourneyClient(p.ID)
				s.LeaveChannel(p, m.Chat, true)
				if len(m.Players()) == 0 && !m.HasAnyTourneyClient() {
					s.DisposeMatch(m)
				}
			}
		}

	default:
		s.log.Debug("unhandled packet", "user", p.ID, "id", f.ID, "len", len(f.Payload))
	}
}

func (s *Server) handleChangeAction(p *Player, payload []byte) {
	a, err := clientpackets.ParseChangeAction(payload)
	if err != nil {
		s.log.Warn("malformed change action", "user", p.ID, "err", err)
		return
	}
	if int(a.Mode) >= NumModes {
		return
	}
	p.SetStatus(Status{
		Action:   Action(a.Action),
		InfoText: a.InfoText,
		MapMD5:   a.MapMD5,
		Mods:     Mods(a.Mods),
		Mode:     Mode(a.Mode),
		MapID:    a.MapID,
	})
	s.BroadcastStats(p)
}

func (s *Server) handleJoinLobby(p *Player) {
	p.SetInLobby(true)
	if ch := s.Channels.GetByRealName("#lobby"); ch != nil {
		s.JoinChannel(p, ch)
	}
	for _, m := range s.Matches.All() {
		p.Enqueue(serverpackets.NewMatch(m.WireData(false)))
	}
}

func (s *Server) handleCreateMatch(p *Player, payload []byte) {
	if p.Silenced() {
		p.Enqueue(serverpackets.MatchJoinFail())
		p.Enqueue(serverpackets.Notification("You cannot host a match while silenced."))
		return
	}
	d, err := clientpackets.ParseMatchData(payload)
	if err != nil {
		s.log.Warn("malformed create match", "user", p.ID, "err", err)
		p.Enqueue(serverpackets.MatchJoinFail())
		return
	}
	s.CreateMatch(p, d)
}

func (s *Server) handleFriendChange(p *Player, targetID int32, add bool) {
	if targetID == p.ID || targetID == BotUserID {
		return
	}
	ctx := context.Background()
	if add {
		p.AddFriend(targetID)
		if err := s.Relations.Upsert(ctx, p.ID, targetID, db.RelationFriend); err != nil {
			s.log.Error("persisting friend", "user", p.ID, "target", targetID, "err", err)
		}
	} else {
		p.RemoveFriend(targetID)
		if err := s.Relations.Delete(ctx, p.ID, targetID); err != nil {
			s.log.Error("removing friend", "user", p.ID, "target", targetID, "err", err)
		}
	}
}
