package bancho

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/udisondev/gosu/internal/bancho/packet"
)

func (cs *commandSet) registerMultiplayer() {
	for _, c := range []*command{
		{name: "help", help: "Show multiplayer subcommands.", fn: mpHelp},
		{name: "start", help: "Start the match, with N seconds of countdown or 'force'.", fn: mpStart},
		{name: "abort", help: "Abort the match in progress.", fn: mpAbort},
		{name: "aborttimer", help: "Cancel the start countdown.", fn: mpAbortTimer},
		{name: "map", help: "Set the map by id: !mp map <id>.", fn: mpMap},
		{name: "mods", help: "Set the match mods: !mp mods <HDDT...>.", fn: mpMods},
		{name: "freemods", help: "Toggle freemods: !mp freemods <on|off>.", fn: mpFreemods},
		{name: "host", help: "Transfer host: !mp host <name>.", fn: mpHost},
		{name: "randpw", help: "Set a random password.", fn: mpRandPW},
		{name: "invite", help: "Invite a player: !mp invite <name>.", fn: mpInvite},
		{name: "lock", help: "Lock a slot: !mp lock <slot>.", fn: mpLock},
		{name: "unlock", help: "Unlock a slot: !mp unlock <slot>.", fn: mpUnlock},
		{name: "teams", help: "Set team type: !mp teams <head|tag|team-vs|tag-team-vs>.", fn: mpTeams},
		{name: "condition", help: "Set win condition: !mp condition <score|acc|combo|scorev2|pp>.", fn: mpCondition},
		{name: "scrim", help: "Start a scrim: !mp scrim <bo1..bo15>.", fn: mpScrim},
		{name: "endscrim", help: "End the scrim.", fn: mpEndScrim},
		{name: "rematch", help: "Restart the scrim, or roll back the previous point.", fn: mpRematch},
		{name: "size", help: "Limit the room to N slots: !mp size <1-16>.", fn: mpSize},
		{name: "force", help: "Force a player into the match: !mp force <name>.", priv: PrivStaff, fn: mpForce},
		{name: "loadpool", help: "Load a mappool: !mp loadpool <name>.", priv: PrivTournament | PrivStaff, fn: mpLoadPool},
		{name: "unloadpool", help: "Unload the mappool.", priv: PrivTournament | PrivStaff, fn: mpUnloadPool},
		{name: "ban", help: "Ban a pool pick: !mp ban <pick>.", fn: mpBan},
		{name: "unban", help: "Unban a pool pick: !mp unban <pick>.", fn: mpUnban},
		{name: "pick", help: "Pick a pool map: !mp pick <pick>.", fn: mpPick},
	} {
		cs.register(cs.mp, c)
	}
}

func mpHelp(s *Server, ctx *commandContext) (string, error) {
	return helpFor(s.commands.mp, ctx.player.Privileges(), s.cfg.CommandPrefix+"mp "), nil
}

func mpStart(s *Server, ctx *commandContext) (string, error) {
	m := ctx.player.Match()
	if m.InProgress() {
		return "", fmt.Errorf("The match is already in progress.")
	}

	if len(ctx.args) > 0 {
		if strings.EqualFold(ctx.args[0], "force") {
			m.Start()
			return "Good luck!", nil
		}
		secs, err := strconv.Atoi(ctx.args[0])
		if err != nil || secs < 1 || secs > 300 {
			return "", fmt.Errorf("Usage: !mp start <seconds|force>")
		}
		m.StartTimer(secs, ctx.player)
		return "", nil
	}

	if n := m.notReadyCount(); n > 0 {
		return "", fmt.Errorf("%s not ready; use !mp start force to start anyway.", plural(n, "player"))
	}
	m.Start()
	return "Good luck!", nil
}

func mpAbort(s *Server, ctx *commandContext) (string, error) {
	m := ctx.player.Match()
	if m.InProgress() {
		m.Abort()
		return "Match aborted.", nil
	}
	if m.StopTimer() {
		return "Countdown cancelled.", nil
	}
	return "", fmt.Errorf("The match is not in progress.")
}

func mpAbortTimer(s *Server, ctx *commandContext) (string, error) {
	if !ctx.player.Match().StopTimer() {
		return "", fmt.Errorf("No countdown is running.")
	}
	return "Countdown cancelled.", nil
}

func mpMap(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp map <map id>")
	}
	mapID, err := strconv.ParseInt(ctx.args[0], 10, 32)
	if err != nil {
		return "", fmt.Errorf("Usage: !mp map <map id>")
	}
	bm, err := s.Beatmaps.ByID(context.Background(), int32(mapID))
	if err != nil {
		s.log.Error("looking up map", "map", mapID, "err", err)
		return "", fmt.Errorf("Could not look that map up, try again.")
	}
	if bm == nil {
		return "", fmt.Errorf("No map with id %d.", mapID)
	}

	m := ctx.player.Match()
	m.setMap(bm.ID, bm.MD5, bm.FullName(), Mode(bm.Mode))
	return fmt.Sprintf("Selected: %s.", bm.FullName()), nil
}

func mpMods(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp mods <mods>")
	}
	mods := ParseMods(ctx.args[0])
	m := ctx.player.Match()

	m.mu.Lock()
	if m.freemods {
		m.mods = mods & ModSpeedChanging
	} else {
		m.mods = mods
	}
	m.mu.Unlock()
	m.UnreadyAll()
	m.EnqueueState(true)
	return fmt.Sprintf("Match mods set to %s.", mods), nil
}

func mpFreemods(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp freemods <on|off>")
	}
	m := ctx.player.Match()
	d := m.WireData(true)
	d.Freemods = strings.EqualFold(ctx.args[0], "on")
	m.ApplySettings(d)
	if d.Freemods {
		return "Freemods enabled.", nil
	}
	return "Freemods disabled.", nil
}

func mpHost(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp host <name>")
	}
	m := ctx.player.Match()
	target := s.Sessions.GetByName(strings.Join(ctx.args, " "))
	if target == nil {
		return "", fmt.Errorf("That player is not online.")
	}
	i := m.SlotOf(target)
	if i == -1 {
		return "", fmt.Errorf("%s is not in this match.", target.Name)
	}
	m.TransferHost(i)
	return fmt.Sprintf("%s is now the host.", target.Name), nil
}

func mpRandPW(s *Server, ctx *commandContext) (string, error) {
	pw := GenerateToken()[:8]
	ctx.player.Match().SetPassword(pw)
	return "Match password randomized.", nil
}

func mpInvite(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp invite <name>")
	}
	target := s.Sessions.GetByName(strings.Join(ctx.args, " "))
	if target == nil {
		return "", fmt.Errorf("That player is not online.")
	}
	s.InviteToMatch(ctx.player, target.ID)
	return fmt.Sprintf("Invited %s to the match.", target.Name), nil
}

func mpLock(s *Server, ctx *commandContext) (string, error) {
	return mpSetSlotLock(ctx, true)
}

func mpUnlock(s *Server, ctx *commandContext) (string, error) {
	return mpSetSlotLock(ctx, false)
}

func mpSetSlotLock(ctx *commandContext, lock bool) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp %s <slot 1-16>", map[bool]string{true: "lock", false: "unlock"}[lock])
	}
	n, err := strconv.Atoi(ctx.args[0])
	if err != nil || n < 1 || n > packet.MaxSlots {
		return "", fmt.Errorf("Slot must be between 1 and %d.", packet.MaxSlots)
	}
	m := ctx.player.Match()
	i := n - 1

	m.mu.Lock()
	locked := m.slots[i].Status == SlotLocked
	m.mu.Unlock()
	if locked == lock {
		return "", fmt.Errorf("Slot %d is already %s.", n, map[bool]string{true: "locked", false: "open"}[lock])
	}
	m.LockSlot(i)
	return "", nil
}

func mpTeams(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp teams <head|tag|team-vs|tag-team-vs>")
	}
	var tt TeamType
	switch strings.ToLower(ctx.args[0]) {
	case "head", "head-to-head", "h2h":
		tt = TeamTypeHeadToHead
	case "tag", "tag-coop":
		tt = TeamTypeTagCoop
	case "team-vs", "vs":
		tt = TeamTypeTeamVS
	case "tag-team-vs", "tag-vs":
		tt = TeamTypeTagTeamVS
	default:
		return "", fmt.Errorf("Unknown team type %q.", ctx.args[0])
	}

	m := ctx.player.Match()
	d := m.WireData(true)
	d.TeamType = uint8(tt)
	m.ApplySettings(d)
	return "", nil
}

func mpCondition(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp condition <score|acc|combo|scorev2|pp>")
	}
	m := ctx.player.Match()

	if strings.EqualFold(ctx.args[0], "pp") {
		m.mu.Lock()
		if !m.scrim.active {
			m.mu.Unlock()
			return "", fmt.Errorf("pp scoring only applies to scrims.")
		}
		m.scrim.usePP = true
		m.mu.Unlock()
		return "Scrim rounds will be scored on pp.", nil
	}

	var wc WinCondition
	switch strings.ToLower(ctx.args[0]) {
	case "score":
		wc = WinConditionScore
	case "acc", "accuracy":
		wc = WinConditionAccuracy
	case "combo":
		wc = WinConditionCombo
	case "scorev2", "v2":
		wc = WinConditionScoreV2
	default:
		return "", fmt.Errorf("Unknown win condition %q.", ctx.args[0])
	}

	m.mu.Lock()
	m.scrim.usePP = false
	m.winCondition = wc
	m.mu.Unlock()
	m.EnqueueState(false)
	return fmt.Sprintf("Win condition set to %s.", strings.ToLower(ctx.args[0])), nil
}

func mpScrim(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp scrim <bo1..bo15>")
	}
	arg := strings.ToLower(ctx.args[0])
	if !strings.HasPrefix(arg, "bo") {
		return "", fmt.Errorf("Usage: !mp scrim <bo1..bo15>")
	}
	n, err := strconv.Atoi(arg[2:])
	if err != nil {
		return "", fmt.Errorf("Usage: !mp scrim <bo1..bo15>")
	}
	if err := ctx.player.Match().StartScrim(n, false); err != nil {
		return "", err
	}
	return "", nil
}

func mpEndScrim(s *Server, ctx *commandContext) (string, error) {
	m := ctx.player.Match()
	if !m.IsScrimming() {
		return "", fmt.Errorf("No scrim is running.")
	}
	m.EndScrim()
	return "", nil
}

func mpRematch(s *Server, ctx *commandContext) (string, error) {
	m := ctx.player.Match()
	if m.IsScrimming() {
		m.UndoLastPoint()
		return "", nil
	}
	m.mu.Lock()
	bestOf := m.scrim.bestOf
	m.mu.Unlock()
	if bestOf == 0 {
		return "", fmt.Errorf("No previous scrim to rematch; use !mp scrim <boN>.")
	}
	return "", m.StartScrim(bestOf, false)
}

func mpSize(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp size <1-16>")
	}
	n, err := strconv.Atoi(ctx.args[0])
	if err != nil || n < 1 || n > packet.MaxSlots {
		return "", fmt.Errorf("Size must be between 1 and %d.", packet.MaxSlots)
	}

	m := ctx.player.Match()
	m.mu.Lock()
	for i := n; i < packet.MaxSlots; i++ {
		sl := &m.slots[i]
		if sl.Player != nil && sl.Player.ID == m.hostID {
			continue
		}
		if sl.Player != nil {
			sl.Player.setMatch(nil)
		}
		sl.Reset(SlotLocked)
	}
	for i := 0; i < n; i++ {
		if m.slots[i].Status == SlotLocked {
			m.slots[i].Reset(SlotOpen)
		}
	}
	m.mu.Unlock()
	m.EnqueueState(true)
	return fmt.Sprintf("Match size set to %d.", n), nil
}

func mpForce(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp force <name>")
	}
	target := s.Sessions.GetByName(strings.Join(ctx.args, " "))
	if target == nil {
		return "", fmt.Errorf("That player is not online.")
	}
	m := ctx.player.Match()
	if !s.JoinMatch(target, m, m.Password()) {
		return "", fmt.Errorf("Could not move %s into the match.", target.Name)
	}
	return fmt.Sprintf("%s was moved into the match.", target.Name), nil
}

func mpLoadPool(s *Server, ctx *commandContext) (string, error) {
	if len(ctx.args) == 0 {
		return "", fmt.Errorf("Usage: !mp loadpool <name>")
	}
	name := ctx.args[0]
	pool, err := s.Pools.GetByName(context.Background(), name)
	if err != nil {
		s.log.Error("loading pool", "pool", name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}
	if pool == nil {
		return "", fmt.Errorf("No pool named %q.", name)
	}
	maps, err := s.Pools.LoadMaps(context.Background(), pool.ID)
	if err != nil {
		s.log.Error("loading pool maps", "pool", name, "err", err)
		return "", fmt.Errorf("Something went wrong, try again.")
	}

	m := ctx.player.Match()
	m.mu.Lock()
	m.scrim.poolID = pool.ID
	m.scrim.poolName = pool.Name
	m.scrim.bans = make(map[poolBan]struct{})
	m.poolMaps = make(map[poolBan]int32, len(maps))
	for _, pm := range maps {
		m.poolMaps[poolBan{Mods: Mods(pm.Mods), Slot: int(pm.Slot)}] = pm.MapID
	}
	m.mu.Unlock()
	return fmt.Sprintf("Mappool %s loaded (%d maps).", pool.Name, len(maps)), nil
}

func mpUnloadPool(s *Server, ctx *commandContext) (string, error) {
	m := ctx.player.Match()
	m.mu.Lock()
	loaded := m.scrim.poolID != 0
	m.scrim.poolID = 0
	m.scrim.poolName = ""
	m.poolMaps = nil
	m.mu.Unlock()
	if !loaded {
		return "", fmt.Errorf("No pool is loaded.")
	}
	return "Mappool unloaded.", nil
}

func mpBan(s *Server, ctx *commandContext) (string, error) {
	pick, err := requirePick(ctx)
	if err != nil {
		return "", err
	}
	m := ctx.player.Match()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.poolMaps[pick]; !ok {
		return "", fmt.Errorf("That pick is not in the loaded pool.")
	}
	if _, banned := m.scrim.bans[pick]; banned {
		return "", fmt.Errorf("That pick is already banned.")
	}
	m.scrim.bans[pick] = struct{}{}
	return fmt.Sprintf("%s%d banned.", pick.Mods, pick.Slot), nil
}

func mpUnban(s *Server, ctx *commandContext) (string, error) {
	pick, err := requirePick(ctx)
	if err != nil {
		return "", err
	}
	m := ctx.player.Match()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, banned := m.scrim.bans[pick]; !banned {
		return "", fmt.Errorf("That pick is not banned.")
	}
	delete(m.scrim.bans, pick)
	return fmt.Sprintf("%s%d unbanned.", pick.Mods, pick.Slot), nil
}

func mpPick(s *Server, ctx *commandContext) (string, error) {
	pick, err := requirePick(ctx)
	if err != nil {
		return "", err
	}
	m := ctx.player.Match()

	m.mu.Lock()
	mapID, ok := m.poolMaps[pick]
	_, banned := m.scrim.bans[pick]
	m.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("That pick is not in the loaded pool.")
	}
	if banned {
		return "", fmt.Errorf("%s%d has been banned.", pick.Mods, pick.Slot)
	}

	bm, err := s.Beatmaps.ByID(context.Background(), mapID)
	if err != nil || bm == nil {
		s.log.Error("looking up pool map", "map", mapID, "err", err)
		return "", fmt.Errorf("Could not look the picked map up.")
	}

	m.setMap(bm.ID, bm.MD5, bm.FullName(), Mode(bm.Mode))
	m.mu.Lock()
	if pick.Mods != 0 {
		m.mods = pick.Mods
	}
	m.mu.Unlock()
	m.EnqueueState(false)
	return fmt.Sprintf("Picked %s%d: %s.", pick.Mods, pick.Slot, bm.FullName()), nil
}

// requirePick parses a "HD2"-style pool pick from the first argument.
func requirePick(ctx *commandContext) (poolBan, error) {
	if len(ctx.args) == 0 {
		return poolBan{}, fmt.Errorf("Specify a pick, e.g. NM2 or HD1.")
	}
	return parsePick(ctx.args[0])
}

func parsePick(in string) (poolBan, error) {
	in = strings.ToUpper(strings.TrimSpace(in))
	i := len(in)
	for i > 0 && unicode.IsDigit(rune(in[i-1])) {
		i--
	}
	if i == len(in) || i == 0 {
		return poolBan{}, fmt.Errorf("Invalid pick %q, use e.g. NM2 or HD1.", in)
	}
	slot, err := strconv.Atoi(in[i:])
	if err != nil {
		return poolBan{}, fmt.Errorf("Invalid pick %q, use e.g. NM2 or HD1.", in)
	}
	var mods Mods
	if in[:i] != "NM" {
		mods = ParseMods(in[:i])
		if mods == 0 {
			return poolBan{}, fmt.Errorf("Invalid pick %q, use e.g. NM2 or HD1.", in)
		}
	}
	return poolBan{Mods: mods, Slot: slot}, nil
}

// notReadyCount counts occupied slots that are not ready.
func (m *Match) notReadyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for i := range m.slots {
		if m.slots[i].HasPlayer() && m.slots[i].Status != SlotReady {
			n++
		}
	}
	return n
}

// setMap selects a map, unreadying everyone.
func (m *Match) setMap(mapID int32, md5, name string, mode Mode) {
	m.mu.Lock()
	if m.mapID != -1 && m.mapID != mapID {
		m.prevMapID = m.mapID
	}
	m.mapID = mapID
	m.mapMD5 = md5
	m.mapName = name
	m.mode = mode
	for i := range m.slots {
		if m.slots[i].Status == SlotReady {
			m.slots[i].Status = SlotNotReady
		}
	}
	m.mu.Unlock()
	m.EnqueueState(true)
}
