package bancho

import "math/rand"

// BotUserID is the reserved account id of the chat bot.
const BotUserID = 1

// botStatuses are the rotating flavor lines shown on the bot's presence.
var botStatuses = []struct {
	action Action
	text   string
}{
	{ActionTesting, "the waters"},
	{ActionSubmitting, "bug reports"},
	{ActionEditing, "the fabric of reality"},
	{ActionWatching, "over the server"},
	{ActionModding, "your favorite map"},
	{ActionIdle, ""},
}

// newBot builds the bot pseudo-session. Its queue drops everything, it
// never times out, and it carries every privilege so commands aimed at
// it always resolve.
func (s *Server) newBot() *Player {
	p := NewPlayer(BotUserID, s.cfg.BotName,
		PrivUnrestricted|PrivVerified|PrivStaff|PrivTournament)
	p.IsBot = true
	st := p.Status()
	st.Action = ActionWatching
	st.InfoText = "over the server"
	p.SetStatus(st)
	return p
}

// RotateBotStatus picks a fresh flavor line and pushes the bot's stats to
// everyone online.
func (s *Server) RotateBotStatus() {
	pick := botStatuses[rand.Intn(len(botStatuses))]
	st := s.Bot.Status()
	st.Action = pick.action
	st.InfoText = pick.text
	s.Bot.SetStatus(st)
	s.BroadcastStats(s.Bot)
	s.Bot.TouchRecv()
}
