package bancho

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
	"github.com/udisondev/gosu/internal/db"
	"github.com/udisondev/gosu/internal/performance"
)

func (cs *commandSet) registerGeneral() {
	cs.register(cs.cmds, &command{
		name: "help",
		help: "Show this list.",
		fn: func(s *Server, ctx *commandContext) (string, error) {
			return helpFor(s.commands.cmds, ctx.player.Privileges(), s.cfg.CommandPrefix), nil
		},
	})
	cs.register(cs.cmds, &command{
		name: "roll",
		help: "Roll a number between 0 and N (default 100).",
		fn:   cmdRoll,
	})
	cs.register(cs.cmds, &command{
		name: "with",
		help: "Show pp values for your last /np map with the given mods.",
		fn:   cmdWith,
	})
	cs.register(cs.cmds, &command{
		name: "block",
		help: "Block all communication from a user.",
		fn:   cmdBlock,
	})
	cs.register(cs.cmds, &command{
		name: "unblock",
		help: "Unblock a previously blocked user.",
		fn:   cmdUnblock,
	})
	cs.register(cs.cmds, &command{
		name:   "echo",
		help:   "Repeat the given text as the bot.",
		priv:   PrivStaff,
		hidden: false,
		fn: func(s *Server, ctx *commandContext) (string, error) {
			if len(ctx.args) == 0 {
				return "", fmt.Errorf("Usage: !echo <message>")
			}
			return strings.Join(ctx.args, " "), nil
		},
	})
	cs.register(cs.cmds, &command{
		name:   "moderated",
		help:   "Toggle moderated mode on the current channel.",
		priv:   PrivStaff,
		hidden: true,
		fn:     cmdModerated,
	})
	cs.register(cs.cmds, &command{
		name:   "silence",
		help:   "Silence a user: !silence <name> <duration> <reason>.",
		priv:   PrivStaff,
		hidden: true,
		fn:     cmdSilence,
	})
	cs.register(cs.cmds, &command{
		name:   "unsilence",
		help:   "Lift a user's silence.",
		priv:   PrivStaff,
		hidden: true,
		fn:     cmdUnsilence,
	})
	cs.register(cs.cmds, &command{
		name:   "restrict",
		help:   "Restrict an account: !restrict <name> <reason>.",
		priv:   PrivAdmin | PrivDeveloper,
		hidden: true,
		fn:     cmdRestrict,
	})
	cs.register(cs.cmds, &command{
		name:   "unrestrict",
		help:   "Unrestrict an account: !unrestrict <name> <reason>.",
		priv:   PrivAdmin | PrivDeveloper,
		hidden: true,
		fn:     cmdUnrestrict,
	})
}

func cmdRoll(s *Server, ctx *commandContext) (string, error) {
	max := 100
	if len(ctx.args) > 0 {
		if n, err := strconv.Atoi(ctx.args[0]); err == nil && n > 0 {
			max = n
		}
	}
	if max > 32767 {
		max = 32767
	}
	return fmt.Sprintf("%s rolls %d points!", ctx.player.Name, rand.Intn(max+1)), nil
}

// withAccuracies are the accuracy points !with reports.
var withAccuracies = []float64{95, 98, 99, 100}

func cmdWith(s *Server, ctx *commandContext) (string, error) {
	np := ctx.player.NP()
	if np == nil {
		return "", fmt.Errorf("Please /np a map first.")
	}

	mods := np.Mods
	if len(ctx.args) > 0 {
		mods = ParseMods(ctx.args[0])
	}

	cctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	parts := make([]string, 0, len(withAccuracies))
	for _, acc := range withAccuracies {
		res, err := s.Performance.Calculate(cctx, performance.Request{
			MapID:    np.MapID,
			Mode:     uint8(np.Mode),
			Mods:     int32(mods),
			Accuracy: acc,
		})
		if err != nil {
			s.log.Error("pp calculation failed", "map", np.MapID, "err", err)
			return "", fmt.Errorf("Could not calculate pp for that map.")
		}
		parts = append(parts, fmt.Sprintf("%.0f%%: %.0fpp", acc, res.PP))
	}
	return fmt.Sprintf("%s +%s: %s", mapLink(np.MapID), mods, strings.Join(parts, " | ")), nil
}

func mapLink(mapID int32) string {
	return fmt.Sprintf("[https://osu.ppy.sh/b/%d map]", mapID)
}

func cmdBlock(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !block <username>")
	}
	name := strings.Join(ctx.args, " ")
	_, row, err := s.findUser(name)
	if err != nil {
		return "", err
	}
	ctx.player.AddBlock(row.ID)
	if err := s.Relations.Upsert(context.Background(), ctx.player.ID, row.ID, db.RelationBlock); err != nil {
		s.log.Error("persisting block", "user", ctx.player.ID, "target", row.ID, "err", err)
	}
	return fmt.Sprintf("Blocked %s.", row.Name), nil
}

func cmdUnblock(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !unblock <username>")
	}
	name := strings.Join(ctx.args, " ")
	_, row, err := s.findUser(name)
	if err != nil {
		return "", err
	}
	ctx.player.RemoveBlock(row.ID)
	if err := s.Relations.Delete(context.Background(), ctx.player.ID, row.ID); err != nil {
		s.log.Error("removing block", "user", ctx.player.ID, "target", row.ID, "err", err)
	}
	return fmt.Sprintf("Unblocked %s.", row.Name), nil
}

func cmdModerated(s *Server, ctx *commandContext) (string, error) {
	ch := s.Channels.GetByRealName(ctx.target)
	if ch == nil {
		return "", fmt.Errorf("!moderated only works inside a channel.")
	}
	on := true
	if len(ctx.args) > 0 && strings.EqualFold(ctx.args[0], "off") {
		on = false
	}
	ch.SetModerated(on)
	if on {
		return fmt.Sprintf("%s is now in moderated mode.", ch.WireName()), nil
	}
	return fmt.Sprintf("%s is no longer in moderated mode.", ch.WireName()), nil
}

func cmdSilence(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) < 3 {
		return "", fmt.Errorf("Usage: !silence <name> <duration> <reason>")
	}
	target, row, err := s.findUser(ctx.args[0])
	if err != nil {
		return "", err
	}
	dur, err := parseSilenceDuration(ctx.args[1])
	if err != nil {
		return "", err
	}
	reason := strings.Join(ctx.args[2:], " ")

	end := time.Now().Add(dur)
	if err := s.Users.UpdateSilenceEnd(context.Background(), row.ID, end); err != nil {
		return "", fmt.Errorf("Could not persist the silence.")
	}
	if target != nil {
		target.SetSilenceEnd(end)
		target.Enqueue(serverpackets.SilenceEnd(int32(dur / time.Second)))
	}
	s.Sessions.EnqueueAll(serverpackets.UserSilenced(row.ID))

	s.recordModeration(ctx.player, row, db.LogActionSilence, reason)
	return fmt.Sprintf("%s was silenced for %s: %s", row.Name, dur, reason), nil
}

func cmdUnsilence(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !unsilence <name>")
	}
	target, row, err := s.findUser(strings.Join(ctx.args, " "))
	if err != nil {
		return "", err
	}
	if err := s.Users.UpdateSilenceEnd(context.Background(), row.ID, time.Unix(0, 0)); err != nil {
		return "", fmt.Errorf("Could not persist the unsilence.")
	}
	if target != nil {
		target.SetSilenceEnd(time.Time{})
		target.Enqueue(serverpackets.SilenceEnd(0))
	}
	s.recordModeration(ctx.player, row, db.LogActionUnsilence, "")
	return fmt.Sprintf("%s is no longer silenced.", row.Name), nil
}

func cmdRestrict(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) < 2 {
		return "", fmt.Errorf("Usage: !restrict <name> <reason>")
	}
	target, row, err := s.findUser(ctx.args[0])
	if err != nil {
		return "", err
	}
	reason := strings.Join(ctx.args[1:], " ")

	newPriv := Privileges(row.Priv) &^ PrivUnrestricted
	if err := s.Users.UpdatePrivileges(context.Background(), row.ID, int32(newPriv)); err != nil {
		return "", fmt.Errorf("Could not persist the restriction.")
	}
	if target != nil {
		target.SetPrivileges(newPriv)
		target.Enqueue(serverpackets.AccountRestricted())
		target.Enqueue(serverpackets.Notification("Your account has been restricted: " + reason))
		// restricted players disappear from public view
		s.Sessions.EnqueueAll(serverpackets.Logout(target.ID), target.ID)
		for mode := Mode(0); mode < NumModes; mode++ {
			if err := s.Leaderboard.RemoveUser(context.Background(), uint8(mode), target.Country(), target.ID); err != nil {
				s.log.Error("removing restricted user from leaderboard",
					"user", target.ID, "mode", mode, "err", err)
			}
		}
	}
	s.recordModeration(ctx.player, row, db.LogActionRestrict, reason)
	return fmt.Sprintf("%s was restricted: %s", row.Name, reason), nil
}

func cmdUnrestrict(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) < 2 {
		return "", fmt.Errorf("Usage: !unrestrict <name> <reason>")
	}
	target, row, err := s.findUser(ctx.args[0])
	if err != nil {
		return "", err
	}
	reason := strings.Join(ctx.args[1:], " ")

	newPriv := Privileges(row.Priv) | PrivUnrestricted
	if err := s.Users.UpdatePrivileges(context.Background(), row.ID, int32(newPriv)); err != nil {
		return "", fmt.Errorf("Could not persist the unrestriction.")
	}
	if target != nil {
		target.SetPrivileges(newPriv)
		target.Enqueue(serverpackets.Notification("Your account is no longer restricted. Please relogin."))
	}
	s.recordModeration(ctx.player, row, db.LogActionUnrestrict, reason)
	return fmt.Sprintf("%s was unrestricted: %s", row.Name, reason), nil
}

// findUser resolves a name against live sessions first, the database
// second. The session is nil for offline users.
func (s *Server) findUser(name string) (*Player, *db.UserRow, error) {
	safe := MakeSafeName(name)
	row, err := s.Users.GetBySafeName(context.Background(), safe)
	if err != nil {
		s.log.Error("looking up user", "name", name, "err", err)
		return nil, nil, fmt.Errorf("Something went wrong, try again.")
	}
	if row == nil {
		return nil, nil, fmt.Errorf("No such user: %s", name)
	}
	return s.Sessions.GetBySafeName(safe), row, nil
}

// recordModeration writes the audit row and fires the Discord webhook.
// Both are best-effort.
func (s *Server) recordModeration(by *Player, target *db.UserRow, action, reason string) {
	ctx := context.Background()
	if err := s.ModLog.Insert(ctx, by.ID, target.ID, action, reason); err != nil {
		s.log.Error("writing moderation log", "action", action, "err", err)
	}
	line := fmt.Sprintf("**%s** %sed **%s**", by.Name, action, target.Name)
	if reason != "" {
		line += ": " + reason
	}
	go func() {
		wctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.AuditHook.Send(wctx, line); err != nil {
			s.log.Error("sending audit webhook", "err", err)
		}
	}()
}

// parseSilenceDuration parses "30s", "10m", "2h", "3d", "1w".
func parseSilenceDuration(in string) (time.Duration, error) {
	if len(in) < 2 {
		return 0, fmt.Errorf("Invalid duration %q, use e.g. 30s, 10m, 2h, 3d, 1w.", in)
	}
	n, err := strconv.Atoi(in[:len(in)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("Invalid duration %q, use e.g. 30s, 10m, 2h, 3d, 1w.", in)
	}
	switch in[len(in)-1] {
	case 's':
		return time.Duration(n) * time.Second, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'w':
		return time.Duration(n) * 7 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("Invalid duration %q, use e.g. 30s, 10m, 2h, 3d, 1w.", in)
	}
}
