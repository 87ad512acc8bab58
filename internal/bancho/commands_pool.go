package bancho

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/udisondev/gosu/internal/db"
)

// requirePool resolves a pool name or fails with a user-facing error.
func (s *Server) requirePool(name string) (*db.TourneyPool, error) {
	pool, err := s.Pools.GetByName(context.Background(), name)
	if err != nil {
		s.log.Error("looking up pool", "pool", name, "err", err)
		return nil, fmt.Errorf("Something went wrong, try again.")
	}
	if pool == nil {
		return nil, fmt.Errorf("No pool named %q.", name)
	}
	return pool, nil
}

func (cs *commandSet) registerPool() {
	for _, c := range []*command{
		{name: "help", help: "Show mappool subcommands.", fn: poolHelp},
		{name: "create", help: "Create a pool: !pool create <name>.", fn: poolCreate},
		{name: "delete", help: "Delete a pool: !pool delete <name>.", fn: poolDelete},
		{name: "assign", help: "Assign your /np map: !pool assign <name> <pick>.", fn: poolAssign},
		{name: "unassign", help: "Remove a pick: !pool unassign <name> <pick>.", fn: poolUnassign},
		{name: "list", help: "List all pools.", fn: poolList},
		{name: "info", help: "Show a pool's picks: !pool info <name>.", fn: poolInfo},
	} {
		cs.register(cs.pool, c)
	}
}

func poolHelp(s *Server, ctx *commandContext) (string, error) {
	return helpFor(s.commands.pool, ctx.player.Privileges(), s.cfg.CommandPrefix+"pool "), nil
}

func poolCreate(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !pool create <name>")
	}
	name := ctx.args[0]
	existing, err := s.Pools.GetByName(context.Background(), name)
	if err != nil {
		s.log.Error("checking pool name", "pool", name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if existing != nil {
		return "", fmt.Errorf("A pool named %q already exists.", name)
	}
	if _, err := s.Pools.Create(context.Background(), name, ctx.player.ID); err != nil {
		s.log.Error("creating pool", "pool", name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	return fmt.Sprintf("Pool %s created.", name), nil
}

func poolDelete(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !pool delete <name>")
	}
	pool, err := s.requirePool(ctx.args[0])
	if err != nil {
		return "", err
	}
	if err := s.Pools.Delete(context.Background(), pool.ID); err != nil {
		s.log.Error("deleting pool", "pool", pool.Name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	return fmt.Sprintf("Pool %s deleted.", pool.Name), nil
}

func poolAssign(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) < 2 {
		return "", fmt.Errorf("Usage: !pool assign <name> <pick> (after a /np)")
	}
	np := ctx.player.NP()
	if np == nil {
		return "", fmt.Errorf("Please /np the map you want to assign first.")
	}
	pool, err := s.requirePool(ctx.args[0])
	if err != nil {
		return "", err
	}
	pick, err := parsePick(ctx.args[1])
	if err != nil {
		return "", err
	}
	if err := s.Pools.AssignMap(context.Background(), db.TourneyPoolMap{
		PoolID: pool.ID,
		MapID:  np.MapID,
		Mods:   int32(pick.Mods),
		Slot:   int16(pick.Slot),
	}); err != nil {
		s.log.Error("assigning pool map", "pool", pool.Name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	return fmt.Sprintf("Assigned map %d to %s as %s%d.", np.MapID, pool.Name, pick.Mods, pick.Slot), nil
}

func poolUnassign(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) < 2 {
		return "", fmt.Errorf("Usage: !pool unassign <name> <pick>")
	}
	pool, err := s.requirePool(ctx.args[0])
	if err != nil {
		return "", err
	}
	pick, err := parsePick(ctx.args[1])
	if err != nil {
		return "", err
	}
	if err := s.Pools.UnassignMap(context.Background(), pool.ID, int32(pick.Mods), int16(pick.Slot)); err != nil {
		s.log.Error("unassigning pool map", "pool", pool.Name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	return fmt.Sprintf("Removed %s%d from %s.", pick.Mods, pick.Slot, pool.Name), nil
}

func poolList(s *Server, ctx *commandContext) (string, error) {
	pools, err := s.Pools.List(context.Background())
	if err != nil {
		s.log.Error("listing pools", "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if len(pools) == 0 {
		return "No pools exist.", nil
	}
	names := make([]string, 0, len(pools))
	for _, p := range pools {
		names = append(names, p.Name)
	}
	return "Pools: " + strings.Join(names, ", "), nil
}

func poolInfo(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !pool info <name>")
	}
	pool, err := s.requirePool(ctx.args[0])
	if err != nil {
		return "", err
	}
	maps, err := s.Pools.LoadMaps(context.Background(), pool.ID)
	if err != nil {
		s.log.Error("loading pool maps", "pool", pool.Name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if len(maps) == 0 {
		return fmt.Sprintf("%s has no picks yet.", pool.Name), nil
	}
	picks := make([]string, 0, len(maps))
	for _, pm := range maps {
		picks = append(picks, fmt.Sprintf("%s%d: %d", Mods(pm.Mods), pm.Slot, pm.MapID))
	}
	sort.Strings(picks)
	return fmt.Sprintf("%s: %s", pool.Name, strings.Join(picks, " | ")), nil
}
