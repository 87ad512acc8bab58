package bancho

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
	"github.com/udisondev/gosu/internal/beatmap"
	"github.com/udisondev/gosu/internal/config"
	"github.com/udisondev/gosu/internal/db"
	"github.com/udisondev/gosu/internal/geoloc"
	"github.com/udisondev/gosu/internal/performance"
	"github.com/udisondev/gosu/internal/webhook"
)

// The store interfaces below are the slices of the persistence layer this
// package consumes; internal/db's repositories implement them. Keeping
// them narrow lets tests stand in for the database.

// UserStore is the users table surface.
type UserStore interface {
	GetBySafeName(ctx context.Context, safeName string) (*db.UserRow, error)
	GetByID(ctx context.Context, id int32) (*db.UserRow, error)
	FirstUserID(ctx context.Context, excludeID int32) (int32, error)
	UpdatePrivileges(ctx context.Context, id int32, priv int32) error
	UpdateCountry(ctx context.Context, id int32, country string) error
	UpdateSilenceEnd(ctx context.Context, id int32, end time.Time) error
	UpdateLatestActivity(ctx context.Context, id int32) error
	UpdateClan(ctx context.Context, id, clanID int32, clanPriv int16) error
	ExpiredDonors(ctx context.Context, donorMask int32, now time.Time) ([]*db.UserRow, error)
	ResetDonor(ctx context.Context, id int32, donorMask int32) error
}

// StatsStore is the per-mode stats table surface.
type StatsStore interface {
	LoadByUserID(ctx context.Context, userID int32) ([]db.StatsRow, error)
	EnsureRows(ctx context.Context, userID int32, numModes int) error
}

// RelationshipStore is the friend/block table surface.
type RelationshipStore interface {
	LoadByUserID(ctx context.Context, userID int32) (friends, blocks []int32, err error)
	Upsert(ctx context.Context, user1, user2 int32, typ string) error
	Delete(ctx context.Context, user1, user2 int32) error
}

// MailStore is the offline-mail table surface.
type MailStore interface {
	Insert(ctx context.Context, fromID, toID int32, msg string) error
	UnreadByUserID(ctx context.Context, userID int32) ([]db.MailRow, error)
	MarkRead(ctx context.Context, userID int32) error
}

// ChannelStore is the static channel table surface.
type ChannelStore interface {
	LoadAll(ctx context.Context) ([]db.ChannelRow, error)
}

// ModLogStore is the moderation log surface.
type ModLogStore interface {
	Insert(ctx context.Context, from, to int32, action, msg string) error
}

// AuditStore is the login/hardware audit surface.
type AuditStore interface {
	InsertLogin(ctx context.Context, userID int32, ip, osuVer, stream string) error
	UpsertHashes(ctx context.Context, userID int32, h db.ClientHashes) error
	MatchingHardware(ctx context.Context, userID int32, h db.ClientHashes, ignoredDiskSerial string) ([]db.UserRow, error)
}

// PoolStore is the tourney mappool surface.
type PoolStore interface {
	Create(ctx context.Context, name string, createdBy int32) (*db.TourneyPool, error)
	GetByName(ctx context.Context, name string) (*db.TourneyPool, error)
	List(ctx context.Context) ([]db.TourneyPool, error)
	Delete(ctx context.Context, poolID int32) error
	AssignMap(ctx context.Context, m db.TourneyPoolMap) error
	UnassignMap(ctx context.Context, poolID int32, mods int32, slot int16) error
	LoadMaps(ctx context.Context, poolID int32) ([]db.TourneyPoolMap, error)
}

// ClanStore is the clan table surface.
type ClanStore interface {
	Create(ctx context.Context, name, tag string, owner int32) (*db.ClanRow, error)
	GetByTag(ctx context.Context, tag string) (*db.ClanRow, error)
	GetByID(ctx context.Context, id int32) (*db.ClanRow, error)
	List(ctx context.Context) ([]db.ClanRow, error)
	Delete(ctx context.Context, clanID int32) error
	MemberCount(ctx context.Context, clanID int32) (int, error)
}

// RankStore is the leaderboard surface this package reads and prunes.
type RankStore interface {
	GlobalRank(ctx context.Context, mode uint8, userID int32) (int32, error)
	RemoveUser(ctx context.Context, mode uint8, country string, userID int32) error
}

// Server owns the live state: sessions, channels, matches, the bot, and
// every outward-facing collaborator.
type Server struct {
	cfg config.Server
	log *slog.Logger

	Sessions *Sessions
	Channels *Channels
	Matches  *Matches
	Bot      *Player

	Users     UserStore
	Stats     StatsStore
	Relations RelationshipStore
	Mail      MailStore
	ChannelDB ChannelStore
	ModLog    ModLogStore
	Audit     AuditStore
	Pools     PoolStore
	Clans     ClanStore

	Geoloc      geoloc.Resolver
	Beatmaps    beatmap.Source
	Performance performance.Calculator
	AuditHook   *webhook.Client
	Leaderboard RankStore

	commands *commandSet
}

// Deps bundles the server's collaborators.
type Deps struct {
	Users     UserStore
	Stats     StatsStore
	Relations RelationshipStore
	Mail      MailStore
	ChannelDB ChannelStore
	ModLog    ModLogStore
	Audit     AuditStore
	Pools     PoolStore
	Clans     ClanStore

	Geoloc      geoloc.Resolver
	Beatmaps    beatmap.Source
	Performance performance.Calculator
	AuditHook   *webhook.Client
	Leaderboard RankStore
}

// NewServer wires the live state together. Channels come from the
// database via LoadChannels; the bot session is registered immediately.
func NewServer(cfg config.Server, log *slog.Logger, d Deps) *Server {
	s := &Server{
		cfg: cfg,
		log: log,

		Sessions: NewSessions(cfg.BcryptCacheSize),
		Channels: NewChannels(),
		Matches:  NewMatches(),

		Users:     d.Users,
		Stats:     d.Stats,
		Relations: d.Relations,
		Mail:      d.Mail,
		ChannelDB: d.ChannelDB,
		ModLog:    d.ModLog,
		Audit:     d.Audit,
		Pools:     d.Pools,
		Clans:     d.Clans,

		Geoloc:      d.Geoloc,
		Beatmaps:    d.Beatmaps,
		Performance: d.Performance,
		AuditHook:   d.AuditHook,
		Leaderboard: d.Leaderboard,
	}
	s.commands = newCommandSet(s)
	s.Bot = s.newBot()
	if err := s.Sessions.Insert(s.Bot); err != nil {
		log.Error("registering bot session", "err", err)
	}
	return s
}

// Config returns the server configuration.
func (s *Server) Config() config.Server { return s.cfg }

// Log returns the server logger.
func (s *Server) Log() *slog.Logger { return s.log }

// LoadChannels populates the registry from the channels table.
func (s *Server) LoadChannels(ctx context.Context) error {
	rows, err := s.ChannelDB.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		s.Channels.Append(&Channel{
			RealName:  row.Name,
			Topic:     row.Topic,
			ReadPriv:  Privileges(row.ReadPriv),
			WritePriv: Privileges(row.WritePriv),
			AutoJoin:  row.AutoJoin,
		})
	}
	return nil
}

// SendBotMessage delivers a bot line to every member of ch.
func (s *Server) SendBotMessage(ch *Channel, text string) {
	frame := serverpackets.SendMessage(s.Bot.Name, text, ch.WireName(), s.Bot.ID)
	ch.Send(frame, s.Bot)
}

// SendBotPrivate delivers a bot line directly to one session.
func (s *Server) SendBotPrivate(to *Player, text string) {
	to.Enqueue(serverpackets.SendMessage(s.Bot.Name, text, to.Name, s.Bot.ID))
}

// JoinChannel adds p to ch after a privilege check, confirming with a
// join-success frame and refreshing the member count for onlookers.
func (s *Server) JoinChannel(p *Player, ch *Channel) bool {
	if ch.HasMember(p) || !ch.CanRead(p.Privileges()) {
		return false
	}
	// #lobby membership is driven by the lobby part/join packets only
	if ch.RealName == "#lobby" && !p.InLobby() {
		return false
	}
	ch.addMember(p)
	p.addChannel(ch)
	p.Enqueue(serverpackets.ChannelJoinSuccess(ch.WireName()))
	s.updateChannelInfo(ch)
	return true
}

// LeaveChannel removes p from ch. A kick additionally tells the client to
// close the tab.
func (s *Server) LeaveChannel(p *Player, ch *Channel, kick bool) {
	if !ch.HasMember(p) {
		return
	}
	ch.removeMember(p)
	p.removeChannel(ch)
	if kick {
		p.Enqueue(serverpackets.ChannelKick(ch.WireName()))
	}
	if ch.Instance && ch.MemberCount() == 0 {
		s.Channels.Remove(ch)
		return
	}
	s.updateChannelInfo(ch)
}

// updateChannelInfo pushes the current member count to every session that
// can read the channel. Instance channels go to their members only.
func (s *Server) updateChannelInfo(ch *Channel) {
	frame := serverpackets.ChannelInfo(ch.WireName(), ch.Topic, uint16(ch.MemberCount()))
	if ch.Instance {
		for _, m := range ch.Members() {
			m.Enqueue(frame)
		}
		return
	}
	for _, p := range s.Sessions.All() {
		if ch.CanRead(p.Privileges()) {
			p.Enqueue(frame)
		}
	}
}

// StatsFor snapshots p in its wire stats form.
func (s *Server) StatsFor(p *Player) serverpackets.UserStatsData {
	st := p.Status()
	ms := p.Stats(st.Mode)
	return serverpackets.UserStatsData{
		UserID:      p.ID,
		Action:      uint8(st.Action),
		InfoText:    st.InfoText,
		MapMD5:      st.MapMD5,
		Mods:        int32(st.Mods),
		Mode:        uint8(st.Mode),
		MapID:       st.MapID,
		RankedScore: ms.RankedScore,
		Accuracy:    ms.Accuracy / 100,
		Plays:       ms.Plays,
		TotalScore:  ms.TotalScore,
		GlobalRank:  ms.Rank,
		PP:          ms.PP,
	}
}

// PresenceFor snapshots p in its wire presence form.
func (s *Server) PresenceFor(p *Player) serverpackets.UserPresenceData {
	lat, lon := p.Location()
	return serverpackets.UserPresenceData{
		UserID:      p.ID,
		Name:        p.Name,
		UTCOffset:   p.UTCOffset,
		CountryCode: CountryCode(p.Country()),
		BanchoPrivs: uint8(p.Privileges().ClientSide()),
		Mode:        uint8(p.Status().Mode),
		Longitude:   lon,
		Latitude:    lat,
		GlobalRank:  p.Stats(p.Status().Mode).Rank,
	}
}

// BroadcastStats pushes p's stats to everyone (unrestricted sessions see
// restricted players only as themselves; the caller filters).
func (s *Server) BroadcastStats(p *Player) {
	frame := serverpackets.UserStats(s.StatsFor(p))
	if p.Restricted() {
		p.Enqueue(frame)
		return
	}
	s.Sessions.EnqueueAll(frame)
}

// Logout tears the session down: spectating, match, channels, registry.
// Restricted sessions vanish silently; everyone else gets a logout frame.
func (s *Server) Logout(p *Player) {
	if host := p.Spectating(); host != nil {
		s.StopSpectating(p)
	}
	if m := p.Match(); m != nil {
		s.LeaveMatch(p)
	}
	p.SetInLobby(false)
	for _, ch := range p.Channels() {
		s.LeaveChannel(p, ch, false)
	}
	s.Sessions.Remove(p)

	if !p.Restricted() {
		s.Sessions.EnqueueAll(serverpackets.Logout(p.ID))
	}
	if err := s.Users.UpdateLatestActivity(context.Background(), p.ID); err != nil {
		s.log.Error("recording logout activity", "user", p.ID, "err", err)
	}
	s.log.Info("session closed", "user", p.ID, "name", p.Name)
}
