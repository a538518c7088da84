package integrity

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper runs the integrity checks on a schedule and logs the findings
// for operators. It repairs nothing on its own.
type Sweeper struct {
	svc       *Service
	spec      string
	threshold time.Duration
	cron      *cron.Cron
}

func NewSweeper(svc *Service, spec string, threshold time.Duration) *Sweeper {
	return &Sweeper{svc: svc, spec: spec, threshold: threshold}
}

// Start schedules the periodic sweep. Returns an error for a bad spec.
func (s *Sweeper) Start() error {
	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(s.spec, s.sweep); err != nil {
		return err
	}
	s.cron = c
	c.Start()
	log.Printf("[info] operation=integrity.sweep scheduled spec=%q threshold=%s", s.spec, s.threshold)
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	issues, err := s.svc.Validate(ctx)
	if err != nil {
		log.Printf("[error] operation=integrity.sweep error=%v", err)
		return
	}
	for _, issue := range issues {
		log.Printf("[warn] operation=integrity.sweep issue=%q", issue)
	}

	stuck, err := s.svc.FindStuck(ctx, s.threshold)
	if err != nil {
		log.Printf("[error] operation=integrity.sweep error=%v", err)
		return
	}
	for _, rec := range stuck {
		log.Printf("[warn] operation=integrity.sweep stuck sim=%s name=%q last_update=%s",
			rec.ID, rec.Name, rec.UpdatedAt.Format(time.RFC3339))
	}

	if len(issues) == 0 && len(stuck) == 0 {
		log.Printf("[info] operation=integrity.sweep clean")
	}
}
