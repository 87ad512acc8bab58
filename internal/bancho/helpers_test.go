package bancho

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/gosu/internal/bancho/packet"
	"github.com/udisondev/gosu/internal/config"
	"github.com/udisondev/gosu/internal/webhook"
)

// newTestServer builds a fully wired server on in-memory fakes.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, _ := newTestServerWithUsers(t)
	return s
}

// newTestServerWithUsers additionally exposes the user store fake so
// login tests can seed account rows.
func newTestServerWithUsers(t *testing.T) (*Server, *fakeUsers) {
	t.Helper()
	users := newFakeUsers()
	s := NewServer(config.Default(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		Deps{
			Users:     users,
			Stats:     fakeStats{},
			Relations: fakeRelations{},
			Mail:      &fakeMail{},
			ChannelDB: fakeChannelDB{},
			ModLog:    fakeModLog{},
			Audit:     fakeAudit{},
			Pools:     fakePools{},
			Clans:     fakeClans{},

			Geoloc:      fakeGeoloc{},
			Beatmaps:    fakeBeatmaps{},
			Performance: fakePerf{},
			AuditHook:   webhook.NewClient(""),
			Leaderboard: fakeRank{},
		})
	return s, users
}

func newTestPlayer(t *testing.T, s *Server, id int32, name string) *Player {
	t.Helper()
	p := NewPlayer(id, name, PrivUnrestricted|PrivVerified)
	require.NoError(t, s.Sessions.Insert(p))
	return p
}

// drainOpcodes decodes p's outbound queue into the sequence of frame ids.
func drainOpcodes(t *testing.T, p *Player) []uint16 {
	t.Helper()
	data := p.Dequeue()
	var ids []uint16
	r := packet.NewReader(data)
	for r.Remaining() > 0 {
		f, err := r.ReadFrame()
		require.NoError(t, err)
		ids = append(ids, f.ID)
	}
	return ids
}

func containsOpcode(ids []uint16, id uint16) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
