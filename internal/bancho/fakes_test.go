package bancho

import (
	"context"
	"sync"
	"time"

	"github.com/udisondev/gosu/internal/beatmap"
	"github.com/udisondev/gosu/internal/db"
	"github.com/udisondev/gosu/internal/geoloc"
	"github.com/udisondev/gosu/internal/performance"
)

// In-memory stand-ins for the persistence layer, just enough behavior
// for the stateful paths under test.

type fakeUsers struct {
	mu   sync.Mutex
	rows map[string]*db.UserRow // keyed by safe name
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{rows: make(map[string]*db.UserRow)}
}

func (f *fakeUsers) add(row *db.UserRow) {
	f.mu.Lock()
	f.rows[row.SafeName] = row
	f.mu.Unlock()
}

func (f *fakeUsers) GetBySafeName(_ context.Context, safeName string) (*db.UserRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[safeName], nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int32) (*db.UserRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FirstUserID(context.Context, int32) (int32, error) { return 0, nil }

func (f *fakeUsers) UpdatePrivileges(_ context.Context, id int32, priv int32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			row.Priv = priv
		}
	}
	return nil
}

func (f *fakeUsers) UpdateCountry(context.Context, int32, string) error { return nil }
func (f *fakeUsers) UpdateSilenceEnd(context.Context, int32, time.Time) error { return nil }
func (f *fakeUsers) UpdateLatestActivity(context.Context, int32) error { return nil }
func (f *fakeUsers) UpdateClan(context.Context, int32, int32, int16) error { return nil }
func (f *fakeUsers) ResetDonor(context.Context, int32, int32) error { return nil }
func (f *fakeUsers) ExpiredDonors(context.Context, int32, time.Time) ([]*db.UserRow, error) {
	return nil, nil
}

type fakeStats struct{}

func (fakeStats) LoadByUserID(context.Context, int32) ([]db.StatsRow, error) { return nil, nil }
func (fakeStats) EnsureRows(context.Context, int32, int) error { return nil }

type fakeRelations struct{}

func (fakeRelations) LoadByUserID(context.Context, int32) (friends, blocks []int32, err error) {
	return nil, nil, nil
}
func (fakeRelations) Upsert(context.Context, int32, int32, string) error { return nil }
func (fakeRelations) Delete(context.Context, int32, int32) error { return nil }

type fakeMail struct {
	mu   sync.Mutex
	sent []db.MailRow
}

func (f *fakeMail) Insert(_ context.Context, fromID, toID int32, msg string) error {
	f.mu.Lock()
	f.sent = append(f.sent, db.MailRow{FromID: fromID, ToID: toID, Msg: msg})
	f.mu.Unlock()
	return nil
}
func (f *fakeMail) UnreadByUserID(context.Context, int32) ([]db.MailRow, error) { return nil, nil }
func (f *fakeMail) MarkRead(context.Context, int32) error { return nil }

type fakeChannelDB struct{}

func (fakeChannelDB) LoadAll(context.Context) ([]db.ChannelRow, error) { return nil, nil }

type fakeModLog struct{}

func (fakeModLog) Insert(context.Context, int32, int32, string, string) error { return nil }

type fakeAudit struct{}

func (fakeAudit) InsertLogin(context.Context, int32, string, string, string) error { return nil }
func (fakeAudit) UpsertHashes(context.Context, int32, db.ClientHashes) error { return nil }
func (fakeAudit) MatchingHardware(context.Context, int32, db.ClientHashes, string) ([]db.UserRow, error) {
	return nil, nil
}

type fakePools struct{}

func (fakePools) Create(context.Context, string, int32) (*db.TourneyPool, error) { return nil, nil }
func (fakePools) GetByName(context.Context, string) (*db.TourneyPool, error) { return nil, nil }
func (fakePools) List(context.Context) ([]db.TourneyPool, error) { return nil, nil }
func (fakePools) Delete(context.Context, int32) error { return nil }
func (fakePools) AssignMap(context.Context, db.TourneyPoolMap) error { return nil }
func (fakePools) UnassignMap(context.Context, int32, int32, int16) error { return nil }
func (fakePools) LoadMaps(context.Context, int32) ([]db.TourneyPoolMap, error) { return nil, nil }

type fakeClans struct{}

func (fakeClans) Create(context.Context, string, string, int32) (*db.ClanRow, error) {
	return nil, nil
}
func (fakeClans) GetByTag(context.Context, string) (*db.ClanRow, error) { return nil, nil }
func (fakeClans) GetByID(context.Context, int32) (*db.ClanRow, error) { return nil, nil }
func (fakeClans) List(context.Context) ([]db.ClanRow, error) { return nil, nil }
func (fakeClans) Delete(context.Context, int32) error { return nil }
func (fakeClans) MemberCount(context.Context, int32) (int, error) { return 0, nil }

type fakeRank struct{}

func (fakeRank) GlobalRank(context.Context, uint8, int32) (int32, error) { return 0, nil }
func (fakeRank) RemoveUser(context.Context, uint8, string, int32) error { return nil }

type fakeGeoloc struct{}

func (fakeGeoloc) Resolve(context.Context, string) (geoloc.Geolocation, error) {
	return geoloc.Geolocation{Country: "us", Latitude: 50, Longitude: 10}, nil
}

type fakeBeatmaps struct{}

func (fakeBeatmaps) ByID(context.Context, int32) (*beatmap.Beatmap, error) { return nil, nil }
func (fakeBeatmaps) ByMD5(context.Context, string) (*beatmap.Beatmap, error) { return nil, nil }

type fakePerf struct{}

func (fakePerf) Calculate(context.Context, performance.Request) (performance.Result, error) {
	return performance.Result{}, nil
}
