package bancho

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
	"github.com/udisondev/gosu/internal/db"
)

// ProtocolVersion is the Bancho protocol revision this server speaks.
const ProtocolVersion = 19

// Login failure ids returned in the USER_ID frame.
const (
	LoginFailedAuth         int32 = -1
	LoginFailedOldClient    int32 = -2
	LoginFailedBanned       int32 = -3
	LoginFailedError        int32 = -5
	LoginFailedNeedUpgrade  int32 = -6
	LoginFailedPassReset    int32 = -7
	LoginFailedVerification int32 = -8
)

// wineAdapterSentinel is what a client running under wine reports instead
// of a real adapter list.
const wineAdapterSentinel = "runningunderwine"

// inactionableDiskSerial is the disk signature every virtual machine
// guest reports; matching on it would link unrelated accounts.
const inactionableDiskSerial = "ad1d66e9635ea96f1b3a54adca9ed5ef"

var osuVersionRe = regexp.MustCompile(
	`^b(\d{8})(?:\.(\d+))?(beta|cuttingedge|tourney|dev)?$`)

// loginData is the parsed three-line login body.
type loginData struct {
	Username    string
	PasswordMD5 string

	OsuVersion string
	Stream     string
	UTCOffset  int8
	PMPrivate  bool

	Hashes db.ClientHashes
	// adapters is the raw dot-separated adapter list.
	adapters string
}

// parseLoginBody splits the login POST body:
// username \n md5 \n version|utc|city|hashset|pm_private.
func parseLoginBody(body []byte) (*loginData, error) {
	lines := strings.Split(strings.TrimSuffix(string(body), "\n"), "\n")
	if len(lines) != 3 {
		return nil, fmt.Errorf("login body has %d lines, want 3", len(lines))
	}

	parts := strings.Split(lines[2], "|")
	if len(parts) != 5 {
		return nil, fmt.Errorf("login info has %d fields, want 5", len(parts))
	}

	utc, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("parsing utc offset %q: %w", parts[1], err)
	}

	hashes := strings.Split(parts[3], ":")
	if len(hashes) < 5 {
		return nil, fmt.Errorf("client hash set has %d fields, want 5", len(hashes))
	}

	d := &loginData{
		Username:    lines[0],
		PasswordMD5: lines[1],
		OsuVersion:  parts[0],
		UTCOffset:   int8(utc),
		PMPrivate:   parts[4] == "1",
		adapters:    hashes[1],
		Hashes: db.ClientHashes{
			OsuPath:     hashes[0],
			Adapters:    hashes[2],
			UninstallID: hashes[3],
			DiskSerial:  hashes[4],
		},
	}

	m := osuVersionRe.FindStringSubmatch(d.OsuVersion)
	if m == nil {
		return nil, fmt.Errorf("unparseable client version %q", d.OsuVersion)
	}
	d.Stream = m[3]
	if d.Stream == "" {
		d.Stream = "stable"
	}
	return d, nil
}

// validAdapters rejects the empty adapter list hardware spoofers send;
// wine clients legitimately cannot enumerate adapters.
func (d *loginData) validAdapters() bool {
	if d.adapters == wineAdapterSentinel {
		return true
	}
	for _, a := range strings.Split(d.adapters, ".") {
		if a != "" {
			return true
		}
	}
	return false
}

// loginFailure renders a failed login: the failure id plus an optional
// notification.
func loginFailure(id int32, notice string) []byte {
	out := serverpackets.UserID(id)
	if notice != "" {
		out = append(out, serverpackets.Notification(notice)...)
	}
	return out
}

// HandleLogin runs the login pipeline. The returned token is "no" on
// failure (the client treats any cho-token as opaque).
func (s *Server) HandleLogin(ctx context.Context, body []byte, ip string) (token string, response []byte) {
	d, err := parseLoginBody(body)
	if err != nil {
		s.log.Warn("malformed login body", "ip", ip, "err", err)
		return "no", loginFailure(LoginFailedError, "Malformed login request.")
	}

	if !s.clientAllowed(ctx, d) {
		return "no", loginFailure(LoginFailedOldClient,
			"Your client is too old; please update.")
	}
	if !d.validAdapters() {
		return "no", loginFailure(LoginFailedError, "Invalid network adapter list.")
	}

	safe := MakeSafeName(d.Username)
	if existing := s.Sessions.GetBySafeName(safe); existing != nil && !existing.IsBot {
		replaceWindow := time.Duration(s.cfg.Timeouts.LoginReplacement) * time.Second
		if d.Stream != "tourney" && time.Since(existing.LastRecv()) <= replaceWindow {
			return "no", loginFailure(LoginFailedAuth, "User already logged in.")
		}
		s.log.Info("displacing stale session", "user", existing.ID)
		s.Logout(existing)
	}

	row, err := s.Users.GetBySafeName(ctx, safe)
	if err != nil {
		s.log.Error("login user lookup", "user", safe, "err", err)
		return "no", loginFailure(LoginFailedError, "Something went wrong, try again.")
	}
	if row == nil || !s.Sessions.CheckPassword(d.PasswordMD5, row.PwBcrypt) {
		return "no", loginFailure(LoginFailedAuth, "")
	}

	priv := Privileges(row.Priv)
	if d.Stream == "tourney" &&
		(!priv.HasAny(PrivDonator) || !priv.Has(PrivUnrestricted)) {
		return "no", loginFailure(LoginFailedNeedUpgrade,
			"Tournament client access requires supporter.")
	}

	// audit rows are best-effort and off the hot path
	go func(userID int32, ver, stream string, h db.ClientHashes) {
		actx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Audit.InsertLogin(actx, userID, ip, ver, stream); err != nil {
			s.log.Error("recording login", "user", userID, "err", err)
		}
		if err := s.Audit.UpsertHashes(actx, userID, h); err != nil {
			s.log.Error("recording client hashes", "user", userID, "err", err)
		}
	}(row.ID, d.OsuVersion, d.Stream, d.Hashes)

	if !priv.Has(PrivVerified) {
		matches, err := s.Audit.MatchingHardware(ctx, row.ID, d.Hashes, inactionableDiskSerial)
		if err != nil {
			s.log.Error("hardware cross-check", "user", row.ID, "err", err)
		}
		for _, m := range matches {
			if !Privileges(m.Priv).Has(PrivUnrestricted) {
				s.log.Warn("unverified login on banned hardware",
					"user", row.ID, "matched", m.ID)
				return "no", loginFailure(LoginFailedError,
					"Your hardware matches a banned account; please contact staff.")
			}
		}
	}

	geo, err := s.Geoloc.Resolve(ctx, ip)
	if err != nil {
		s.log.Error("geolocation lookup", "ip", ip, "err", err)
		return "no", loginFailure(LoginFailedError, "Something went wrong, try again.")
	}
	if row.Country == "xx" && geo.Country != "" {
		if err := s.Users.UpdateCountry(ctx, row.ID, geo.Country); err != nil {
			s.log.Error("backfilling country", "user", row.ID, "err", err)
		}
		row.Country = geo.Country
	}

	firstLogin := !priv.Has(PrivVerified)
	if firstLogin {
		priv |= PrivVerified
	}
	if firstID, err := s.Users.FirstUserID(ctx, BotUserID); err == nil && firstID == row.ID &&
		!priv.Has(PrivStaff) {
		s.log.Info("granting staff to first user", "user", row.ID)
		priv |= PrivStaff | PrivTournament | PrivWhitelisted
	}
	if int32(priv) != row.Priv {
		if err := s.Users.UpdatePrivileges(ctx, row.ID, int32(priv)); err != nil {
			s.log.Error("persisting privileges", "user", row.ID, "err", err)
		}
	}

	p := NewPlayer(row.ID, row.Name, priv)
	p.UTCOffset = d.UTCOffset
	p.SetPMFriendsOnly(d.PMPrivate)
	p.SetGeolocation(row.Country, geo.Latitude, geo.Longitude)
	if row.SilenceEnd > 0 {
		p.SetSilenceEnd(time.Unix(row.SilenceEnd, 0))
	}
	if row.DonorEnd > 0 {
		p.SetDonorEnd(time.Unix(row.DonorEnd, 0))
	}

	friends, blocks, err := s.Relations.LoadByUserID(ctx, row.ID)
	if err != nil {
		s.log.Error("loading relationships", "user", row.ID, "err", err)
	}
	for _, id := range friends {
		p.AddFriend(id)
	}
	for _, id := range blocks {
		p.AddBlock(id)
	}

	s.loadStats(ctx, p)

	if err := s.Sessions.Insert(p); err != nil {
		s.log.Error("registering session", "user", row.ID, "err", err)
		return "no", loginFailure(LoginFailedError, "Something went wrong, try again.")
	}

	response = s.welcomeBurst(ctx, p, firstLogin)
	s.announceLogin(p)
	s.log.Info("session opened",
		"user", p.ID, "name", p.Name, "stream", d.Stream, "ip", ip)
	return p.Token, response
}

// loadStats pulls the per-mode rows and resolves global ranks.
func (s *Server) loadStats(ctx context.Context, p *Player) {
	if err := s.Stats.EnsureRows(ctx, p.ID, NumModes); err != nil {
		s.log.Error("ensuring stats rows", "user", p.ID, "err", err)
	}
	rows, err := s.Stats.LoadByUserID(ctx, p.ID)
	if err != nil {
		s.log.Error("loading stats", "user", p.ID, "err", err)
		return
	}
	for _, r := range rows {
		if int(r.Mode) >= NumModes {
			continue
		}
		st := ModeStats{
			TotalScore:  r.TotalScore,
			RankedScore: r.RankedScore,
			PP:          r.PP,
			Plays:       r.Plays,
			Accuracy:    r.Accuracy,
			MaxCombo:    r.MaxCombo,
		}
		if rank, err := s.Leaderboard.GlobalRank(ctx, r.Mode, p.ID); err == nil {
			st.Rank = rank
		}
		p.SetStats(Mode(r.Mode), st)
	}
}

// welcomeBurst builds the login response frames in their fixed order.
func (s *Server) welcomeBurst(ctx context.Context, p *Player, firstLogin bool) []byte {
	var out []byte
	add := func(b []byte) { out = append(out, b...) }

	add(serverpackets.ProtocolVersion(ProtocolVersion))
	add(serverpackets.UserID(p.ID))
	add(serverpackets.Privileges(int32(p.Privileges().ClientSide())))
	add(serverpackets.Notification(fmt.Sprintf("Welcome back to %s!", s.cfg.Domain)))

	for _, ch := range s.Channels.All() {
		if !ch.AutoJoin || ch.RealName == "#lobby" || !ch.CanRead(p.Privileges()) {
			continue
		}
		add(serverpackets.ChannelAutoJoin(ch.WireName(), ch.Topic, uint16(ch.MemberCount()+1)))
		ch.addMember(p)
		p.addChannel(ch)
		add(serverpackets.ChannelJoinSuccess(ch.WireName()))
		s.updateChannelInfo(ch)
	}
	add(serverpackets.ChannelInfoEnd())

	if s.cfg.MenuIconURL != "" {
		add(serverpackets.MainMenuIcon(s.cfg.MenuIconURL, s.cfg.MenuOnclickURL))
	}
	add(serverpackets.FriendsList(p.FriendIDs()))
	if p.Silenced() {
		add(serverpackets.SilenceEnd(int32(p.SilenceRemaining() / time.Second)))
	} else {
		add(serverpackets.SilenceEnd(0))
	}

	add(serverpackets.UserPresence(s.PresenceFor(p)))
	add(serverpackets.UserStats(s.StatsFor(p)))

	for _, other := range s.Sessions.All() {
		if other == p {
			continue
		}
		if other.IsBot {
			// the bot never changes location; a presence-single is enough
			add(serverpackets.UserPresenceSingle(other.ID))
			add(serverpackets.UserStats(s.StatsFor(other)))
			continue
		}
		if other.Restricted() {
			continue
		}
		add(serverpackets.UserPresence(s.PresenceFor(other)))
		add(serverpackets.UserStats(s.StatsFor(other)))
	}

	s.appendMail(ctx, p, add)

	if p.Restricted() {
		add(serverpackets.AccountRestricted())
		add(serverpackets.Notification(
			"Your account is restricted: you are invisible to other players."))
	}
	if firstLogin {
		add(serverpackets.SendMessage(s.Bot.Name,
			fmt.Sprintf("Welcome to %s! Type %shelp to see what I can do.",
				s.cfg.Domain, s.cfg.CommandPrefix),
			p.Name, s.Bot.ID))
	}
	return out
}

// appendMail delivers offline mail as chat lines from the original
// senders.
func (s *Server) appendMail(ctx context.Context, p *Player, add func([]byte)) {
	mail, err := s.Mail.UnreadByUserID(ctx, p.ID)
	if err != nil {
		s.log.Error("loading mail", "user", p.ID, "err", err)
		return
	}
	if len(mail) == 0 {
		return
	}
	add(serverpackets.Notification(
		fmt.Sprintf("You have %s waiting.", plural(len(mail), "unread message"))))
	for _, m := range mail {
		sent := time.Unix(m.Time, 0).Format("Jan 2 15:04")
		add(serverpackets.SendMessage(m.FromName,
			fmt.Sprintf("[%s] %s", sent, m.Msg), p.Name, m.FromID))
	}
	if err := s.Mail.MarkRead(ctx, p.ID); err != nil {
		s.log.Error("marking mail read", "user", p.ID, "err", err)
	}
}

// announceLogin pushes the new session's presence to everyone else.
func (s *Server) announceLogin(p *Player) {
	if p.Restricted() {
		return
	}
	presence := serverpackets.UserPresence(s.PresenceFor(p))
	stats := serverpackets.UserStats(s.StatsFor(p))
	for _, other := range s.Sessions.All() {
		if other != p {
			other.Enqueue(presence)
			other.Enqueue(stats)
		}
	}
}

// clientAllowed checks the client build against the upstream changelog
// for its stream. Upstream being unreachable degrades to allow.
func (s *Server) clientAllowed(ctx context.Context, d *loginData) bool {
	if !s.cfg.EnforceChangelog || s.cfg.ChangelogURL == "" {
		return true
	}

	url := fmt.Sprintf("%s?stream=%s", s.cfg.ChangelogURL, d.Stream)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return true
	}
	client := &http.Client{Timeout: 4 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		s.log.Warn("changelog unreachable, allowing login", "err", err)
		return true
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return true
	}

	var builds []struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&builds); err != nil {
		s.log.Warn("unparseable changelog, allowing login", "err", err)
		return true
	}
	want := strings.TrimPrefix(d.OsuVersion, "b")
	for _, b := range builds {
		if b.Version == want {
			return true
		}
	}
	return false
}
