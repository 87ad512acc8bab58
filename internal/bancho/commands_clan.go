package bancho

import (
	"context"
	"fmt"
	"strings"

	"github.com/udisondev/gosu/internal/db"
)

func (cs *commandSet) registerClan() {
	for _, c := range []*command{
		{name: "help", help: "Show clan subcommands.", fn: clanHelp},
		{name: "create", help: "Create a clan: !clan create <tag> <name>.", fn: clanCreate},
		{name: "disband", help: "Disband your clan (owner only).", fn: clanDisband},
		{name: "leave", help: "Leave your current clan.", fn: clanLeave},
		{name: "info", help: "Show a clan's details: !clan info <tag>.", fn: clanInfo},
		{name: "list", help: "List all clans.", fn: clanList},
	} {
		cs.register(cs.clan, c)
	}
}

func clanHelp(s *Server, ctx *commandContext) (string, error) {
	return helpFor(s.commands.clan, ctx.player.Privileges(), s.cfg.CommandPrefix+"clan "), nil
}

func clanCreate(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) < 2 {
		return "", fmt.Errorf("Usage: !clan create <tag> <name>")
	}
	tag := strings.ToUpper(ctx.args[0])
	name := strings.Join(ctx.args[1:], " ")
	if len(tag) > 6 || len(name) > 16 {
		return "", fmt.Errorf("Tags are up to 6 characters, names up to 16.")
	}

	cctx := context.Background()
	row, err := s.Users.GetByID(cctx, ctx.player.ID)
	if err != nil || row == nil {
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if row.ClanID != 0 {
		return "", fmt.Errorf("You are already in a clan; leave it first.")
	}
	if existing, err := s.Clans.GetByTag(cctx, tag); err != nil || existing != nil {
		if existing != nil {
			return "", fmt.Errorf("A clan with tag [%s] already exists.", tag)
		}
		return "", fmt.Errorf("Something went wrong, try again.")
	}

	clan, err := s.Clans.Create(cctx, name, tag, ctx.player.ID)
	if err != nil {
		s.log.Error("creating clan", "tag", tag, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if err := s.Users.UpdateClan(cctx, ctx.player.ID, clan.ID, db.ClanPrivOwner); err != nil {
		s.log.Error("attaching clan owner", "clan", clan.ID, "err", err)
	}
	return fmt.Sprintf("Clan [%s] %s created. You are its owner.", tag, name), nil
}

func clanDisband(s *Server, ctx *commandContext) (string, error) {
	cctx := context.Background()
	row, err := s.Users.GetByID(cctx, ctx.player.ID)
	if err != nil || row == nil || row.ClanID == 0 {
		return "", fmt.Errorf("You are not in a clan.")
	}
	clan, err := s.Clans.GetByID(cctx, row.ClanID)
	if err != nil || clan == nil {
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if clan.Owner != ctx.player.ID {
		return "", fmt.Errorf("Only the clan owner can disband it.")
	}
	if err := s.Clans.Delete(cctx, clan.ID); err != nil {
		s.log.Error("disbanding clan", "clan", clan.ID, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	return fmt.Sprintf("Clan [%s] disbanded.", clan.Tag), nil
}

func clanLeave(s *Server, ctx *commandContext) (string, error) {
	cctx := context.Background()
	row, err := s.Users.GetByID(cctx, ctx.player.ID)
	if err != nil || row == nil || row.ClanID == 0 {
		return "", fmt.Errorf("You are not in a clan.")
	}
	clan, err := s.Clans.GetByID(cctx, row.ClanID)
	if err != nil || clan == nil {
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if clan.Owner == ctx.player.ID {
		return "", fmt.Errorf("Owners cannot leave; disband the clan instead.")
	}
	if err := s.Users.UpdateClan(cctx, ctx.player.ID, 0, 0); err != nil {
		s.log.Error("leaving clan", "clan", clan.ID, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	return fmt.Sprintf("You left [%s].", clan.Tag), nil
}

func clanInfo(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !clan info <tag>")
	}
	cctx := context.Background()
	clan, err := s.Clans.GetByTag(cctx, strings.ToUpper(ctx.args[0]))
	if err != nil {
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if clan == nil {
		return "", fmt.Errorf("No clan with tag [%s].", strings.ToUpper(ctx.args[0]))
	}
	members, err := s.Clans.MemberCount(cctx, clan.ID)
	if err != nil {
		s.log.Error("counting clan members", "clan", clan.ID, "err", err)
	}
	return fmt.Sprintf("[%s] %s: %s.", clan.Tag, clan.Name, plural(members, "member")), nil
}

func clanList(s *Server, ctx *commandContext) (string, error) {
	clans, err := s.Clans.List(context.Background())
	if err != nil {
		s.log.Error("listing clans", "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if len(clans) == 0 {
		return "No clans exist yet.", nil
	}
	parts := make([]string, 0, len(clans))
	for _, c := range clans {
		parts = append(parts, fmt.Sprintf("[%s] %s", c.Tag, c.Name))
	}
	return "Clans: " + strings.Join(parts, ", "), nil
}
