package bancho

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

// MaxMessageLen is the chat truncation threshold.
const MaxMessageLen = 2000

// npExpiry is how long a /np context stays usable by commands.
const npExpiry = 5 * time.Minute

// npRe matches the "is listening to" action the client sends on /np.
// Group 1 is the beatmap id.
var npRe = regexp.MustCompile(`\x01ACTION is (?:playing|listening to|watching|editing) \[https?://\S+/beatmapsets/\d+#?/?(\d+)`)

// ignoredChannels are client-side pseudo-channels whose traffic the
// server silently drops.
var ignoredChannels = map[string]struct{}{
	"#highlight": {},
	"#userlog":   {},
}

func truncateMessage(text string) string {
	if len(text) <= MaxMessageLen {
		return text
	}
	return text[:MaxMessageLen] + "... (truncated)"
}

// clampMessage truncates overlong text, telling the sender when it did.
func (s *Server) clampMessage(p *Player, text string) string {
	if len(text) > MaxMessageLen {
		p.Enqueue(serverpackets.Notification("Your message was too long and has been truncated."))
	}
	return truncateMessage(text)
}

// HandlePublicMessage routes a channel message: silences and ignored
// pseudo-channels drop it, command prefixes run the interpreter, /np
// actions update the sender's context. Hidden commands keep both the
// invocation text and the response between the invoker and staff.
func (s *Server) HandlePublicMessage(p *Player, targetName, text string) {
	if p.Silenced() {
		s.log.Warn("silenced user tried to chat", "user", p.ID)
		return
	}
	if _, ignored := ignoredChannels[targetName]; ignored {
		return
	}
	ch := s.resolveChannel(p, targetName)
	if ch == nil {
		s.log.Warn("message to unknown channel", "user", p.ID, "target", targetName)
		return
	}
	if !ch.HasMember(p) || !ch.CanWrite(p.Privileges()) {
		s.log.Warn("message without channel access", "user", p.ID, "channel", ch.RealName)
		return
	}

	text = s.clampMessage(p, text)

	var res commandResult
	isCommand := strings.HasPrefix(text, s.cfg.CommandPrefix)
	if isCommand {
		res = s.commands.execute(p, ch.RealName, text)
	}

	msg := serverpackets.SendMessage(p.Name, text, ch.WireName(), p.ID)
	if isCommand && res.hidden {
		s.sendToChannelStaff(ch, p, msg)
	} else {
		ch.Send(msg, p)
	}
	_ = s.Users.UpdateLatestActivity(context.Background(), p.ID)

	s.captureNP(p, text)

	if res.response != "" {
		frame := serverpackets.SendMessage(s.Bot.Name, res.response, ch.WireName(), s.Bot.ID)
		if res.hidden {
			p.Enqueue(frame)
			s.sendToChannelStaff(ch, p, frame)
			return
		}
		ch.Send(frame, nil)
	}
}

// sendToChannelStaff delivers frame to every staff member of ch except p.
func (s *Server) sendToChannelStaff(ch *Channel, p *Player, frame []byte) {
	for _, st := range s.Sessions.Staff() {
		if st != p && ch.HasMember(st) {
			st.Enqueue(frame)
		}
	}
}

// HandlePrivateMessage routes a DM: bot targets run commands, offline
// targets get mail, silenced and blocking targets bounce.
func (s *Server) HandlePrivateMessage(p *Player, targetName, text string) {
	if p.Silenced() {
		return
	}
	text = s.clampMessage(p, text)

	target := s.Sessions.GetByName(targetName)
	if target == nil {
		s.deliverMail(p, targetName, text)
		return
	}

	if target.IsBot {
		s.captureNP(p, text)
		if strings.HasPrefix(text, s.cfg.CommandPrefix) {
			if res := s.commands.execute(p, target.Name, text); res.response != "" {
				s.SendBotPrivate(p, res.response)
			}
			return
		}
		if npRe.MatchString(text) {
			s.replyNP(p)
		}
		return
	}

	if target.HasBlocked(p.ID) ||
		(target.PMFriendsOnly() && !target.IsFriend(p.ID) && !p.Privileges().HasAny(PrivStaff)) {
		p.Enqueue(serverpackets.UserDMBlocked(targetName))
		return
	}
	if target.Silenced() {
		p.Enqueue(serverpackets.TargetIsSilenced(targetName))
		return
	}

	target.Enqueue(serverpackets.SendMessage(p.Name, text, target.Name, p.ID))
	_ = s.Users.UpdateLatestActivity(context.Background(), p.ID)

	if away := target.AwayMessage(); away != "" {
		p.Enqueue(serverpackets.SendMessage(target.Name,
			fmt.Sprintf("\x01ACTION is away: %s\x01", away), p.Name, target.ID))
	}
}

// deliverMail stores a DM for an offline recipient.
func (s *Server) deliverMail(p *Player, targetName, text string) {
	ctx := context.Background()
	row, err := s.Users.GetBySafeName(ctx, MakeSafeName(targetName))
	if err != nil {
		s.log.Error("looking up mail recipient", "target", targetName, "err", err)
		return
	}
	if row == nil {
		s.log.Warn("dm to unknown user", "user", p.ID, "target", targetName)
		return
	}
	if err := s.Mail.Insert(ctx, p.ID, row.ID, text); err != nil {
		s.log.Error("storing offline mail", "to", row.ID, "err", err)
		return
	}
	s.SendBotPrivate(p, fmt.Sprintf("%s is offline; they will receive your message when they log in.", targetName))
}

// resolveChannel maps a wire channel name back to the concrete channel:
// the multiplayer and spectator aliases resolve through the sender.
func (s *Server) resolveChannel(p *Player, wireName string) *Channel {
	switch wireName {
	case "#multiplayer":
		if m := p.Match(); m != nil {
			return m.Chat
		}
		return nil
	case "#spectator":
		if host := p.Spectating(); host != nil {
			return s.Channels.GetByRealName(fmt.Sprintf("#spec_%d", host.ID))
		}
		if len(p.Spectators()) > 0 {
			return s.Channels.GetByRealName(fmt.Sprintf("#spec_%d", p.ID))
		}
		return nil
	default:
		return s.Channels.GetByRealName(wireName)
	}
}

// captureNP parses a /np action into the sender's now-playing context.
func (s *Server) captureNP(p *Player, text string) {
	match := npRe.FindStringSubmatch(text)
	if match == nil {
		return
	}
	mapID, err := strconv.ParseInt(match[1], 10, 32)
	if err != nil {
		return
	}

	mode := p.Status().Mode
	var mods Mods
	// trailing mod words, e.g. "... +HardRock +DoubleTime]\x01"
	for _, word := range strings.Fields(text) {
		if strings.HasPrefix(word, "+") {
			mods |= ParseNamedMod(strings.TrimRight(word[1:], "]\x01"))
		}
	}

	np := &NPContext{
		MapID:     int32(mapID),
		Mode:      mode,
		Mods:      mods,
		ExpiresAt: time.Now().Add(npExpiry),
	}
	if bm, err := s.Beatmaps.ByID(context.Background(), int32(mapID)); err == nil && bm != nil {
		np.MapLength = bm.TotalLength
	}
	p.SetNP(np)
}

// replyNP answers a bare /np sent to the bot with the map's details.
func (s *Server) replyNP(p *Player) {
	np := p.NP()
	if np == nil {
		return
	}
	bm, err := s.Beatmaps.ByID(context.Background(), np.MapID)
	if err != nil || bm == nil {
		return
	}
	s.SendBotPrivate(p, fmt.Sprintf("Now playing: %s (%d)", bm.FullName(), bm.ID))
}
