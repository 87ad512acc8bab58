package bancho

import (
	"fmt"
	"sort"
	"strings"
)

// commandContext carries one invocation through a handler.
type commandContext struct {
	player *Player
	// target is where the invocation arrived: a channel real name or the
	// bot's name for DMs.
	target string
	args   []string
}

type commandHandler func(s *Server, ctx *commandContext) (string, error)

type command struct {
	name string
	help string
	// priv gates the command; zero means everyone.
	priv Privileges
	// hidden responses go to the sender and online staff only.
	hidden bool
	fn     commandHandler
}

// commandResult is what the chat router fans out.
type commandResult struct {
	response string
	hidden   bool
}

// commandSet is the interpreter: top-level commands plus the nested mp
// and pool sets.
type commandSet struct {
	srv  *Server
	cmds map[string]*command
	mp   map[string]*command
	pool map[string]*command
	clan map[string]*command
}

func newCommandSet(s *Server) *commandSet {
	cs := &commandSet{
		srv:  s,
		cmds: make(map[string]*command),
		mp:   make(map[string]*command),
		pool: make(map[string]*command),
		clan: make(map[string]*command),
	}
	cs.registerGeneral()
	cs.registerMultiplayer()
	cs.registerPool()
	cs.registerClan()
	return cs
}

func (cs *commandSet) register(m map[string]*command, c *command) {
	m[c.name] = c
}

// execute runs one prefixed chat line. A handler panic is contained and
// reported as a generic failure; the offending input is logged.
func (cs *commandSet) execute(p *Player, target, text string) (res commandResult) {
	defer func() {
		if r := recover(); r != nil {
			cs.srv.log.Error("command panicked",
				"user", p.ID, "input", text, "panic", r)
			res = commandResult{response: "An unexpected error occurred."}
		}
	}()

	line := strings.TrimPrefix(text, cs.srv.cfg.CommandPrefix)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return commandResult{}
	}
	trigger := strings.ToLower(fields[0])
	args := fields[1:]

	switch trigger {
	case "mp":
		return cs.executeMultiplayer(p, target, args)
	case "pool":
		return cs.executePool(p, target, args)
	case "clan":
		return cs.executeClan(p, target, args)
	}

	c, ok := cs.cmds[trigger]
	if !ok {
		return commandResult{}
	}
	if c.priv != 0 && !p.Privileges().HasAny(c.priv) {
		return commandResult{}
	}

	resp, err := c.fn(cs.srv, &commandContext{player: p, target: target, args: args})
	if err != nil {
		return commandResult{response: err.Error(), hidden: c.hidden}
	}
	return commandResult{response: resp, hidden: c.hidden}
}

// executeMultiplayer dispatches an mp subcommand. Everything except help
// requires being a referee of the invoking player's match.
func (cs *commandSet) executeMultiplayer(p *Player, target string, args []string) commandResult {
	if len(args) == 0 {
		return commandResult{response: "Usage: !mp <subcommand>. See !mp help."}
	}
	sub := strings.ToLower(args[0])
	c, ok := cs.mp[sub]
	if !ok {
		return commandResult{response: fmt.Sprintf("Unknown subcommand %q. See !mp help.", sub)}
	}

	if sub != "help" {
		m := p.Match()
		if m == nil {
			return commandResult{response: "You are not in a multiplayer match."}
		}
		if target != m.Chat.RealName {
			return commandResult{response: "Match commands only work inside the match's own channel."}
		}
		if !m.IsReferee(p) {
			return commandResult{response: "Match commands require host or referee status."}
		}
	}
	if c.priv != 0 && !p.Privileges().HasAny(c.priv) {
		return commandResult{}
	}

	resp, err := c.fn(cs.srv, &commandContext{player: p, target: target, args: args[1:]})
	if err != nil {
		return commandResult{response: err.Error()}
	}
	return commandResult{response: resp}
}

// executePool dispatches a pool subcommand; the whole set is tournament
// staff only.
func (cs *commandSet) executePool(p *Player, target string, args []string) commandResult {
	if !p.Privileges().HasAny(PrivTournament | PrivStaff) {
		return commandResult{}
	}
	if len(args) == 0 {
		return commandResult{response: "Usage: !pool <subcommand>. See !pool help."}
	}
	sub := strings.ToLower(args[0])
	c, ok := cs.pool[sub]
	if !ok {
		return commandResult{response: fmt.Sprintf("Unknown subcommand %q. See !pool help.", sub)}
	}

	resp, err := c.fn(cs.srv, &commandContext{player: p, target: target, args: args[1:]})
	if err != nil {
		return commandResult{response: err.Error()}
	}
	return commandResult{response: resp}
}

// executeClan dispatches a clan subcommand; bare "!clan" shows help.
func (cs *commandSet) executeClan(p *Player, target string, args []string) commandResult {
	sub := "help"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	c, ok := cs.clan[sub]
	if !ok {
		return commandResult{response: fmt.Sprintf("Unknown subcommand %q. See !clan help.", sub)}
	}

	resp, err := c.fn(cs.srv, &commandContext{player: p, target: target, args: args})
	if err != nil {
		return commandResult{response: err.Error()}
	}
	return commandResult{response: resp}
}

// helpFor renders the visible commands of a set for the given player.
func helpFor(m map[string]*command, privs Privileges, prefix string) string {
	names := make([]string, 0, len(m))
	for name, c := range m {
		if c.priv != 0 && !privs.HasAny(c.priv) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Available commands:")
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("\n%s%s: %s", prefix, name, m[name].help))
	}
	return sb.String()
}
