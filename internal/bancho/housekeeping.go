package bancho

import (
	"context"
	"time"

	"github.com/udisondev/gosu/internal/bancho/serverpackets"
)

const (
	donorExpiryPeriod = 30 * time.Minute
	botRotationPeriod = 5 * time.Minute
	ghostReaperPeriod = 100 * time.Second
)

// RunDonorExpiry strips expired donor perks on a slow cadence.
func (s *Server) RunDonorExpiry(ctx context.Context) error {
	ticker := time.NewTicker(donorExpiryPeriod)
	defer ticker.Stop()
	for {
		s.expireDonors(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Server) expireDonors(ctx context.Context) {
	rows, err := s.Users.ExpiredDonors(ctx, int32(PrivDonator), time.Now())
	if err != nil {
		s.log.Error("querying expired donors", "err", err)
		return
	}
	for _, row := range rows {
		if err := s.Users.ResetDonor(ctx, row.ID, int32(PrivDonator)); err != nil {
			s.log.Error("resetting donor", "user", row.ID, "err", err)
			continue
		}
		s.log.Info("donor perks expired", "user", row.ID)
		if p := s.Sessions.GetByID(row.ID); p != nil {
			p.SetPrivileges(p.Privileges() &^ PrivDonator)
			p.SetDonorEnd(time.Time{})
			p.Enqueue(serverpackets.Privileges(int32(p.Privileges().ClientSide())))
			p.Enqueue(serverpackets.Notification("Your supporter status has expired."))
		}
	}
}

// RunBotRotation refreshes the bot's flavor status periodically.
func (s *Server) RunBotRotation(ctx context.Context) error {
	ticker := time.NewTicker(botRotationPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.RotateBotStatus()
		}
	}
}

// RunGhostReaper logs out sessions that stopped sending traffic without
// a logout packet (client crash, network loss).
func (s *Server) RunGhostReaper(ctx context.Context) error {
	threshold := time.Duration(s.cfg.Timeouts.GhostDisconnect) * time.Second
	ticker := time.NewTicker(ghostReaperPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for _, p := range s.Sessions.All() {
				if p.IsBot {
					continue
				}
				if idle := time.Since(p.LastRecv()); idle > threshold {
					s.log.Info("reaping ghost session", "user", p.ID, "idle", idle)
					s.Logout(p)
				}
			}
		}
	}
}
