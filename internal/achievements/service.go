package achievements

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"sauna-admin-backend/config"
	"sauna-admin-backend/internal/badge"
	"sauna-admin-backend/internal/store"
)

// Service orchestrates the periodic recomputation of dynamic badges from
// the visit log. Ranking badges are assigned centrally from per-member
// visit counts; everything per-member goes through the worker pool.
type Service struct {
	cfg        *config.Config
	store      store.Store
	workerPool *WorkerPool
}

// NewService creates and initializes a new achievements service.
func NewService(cfg *config.Config, s store.Store) *Service {
	return &Service{
		cfg:        cfg,
		store:      s,
		workerPool: NewWorkerPool(cfg.WorkerPool.Size, s),
	}
}

// StartWorkers launches the worker pool without the periodic loop. Run
// uses it; one-off recompute callers start the workers themselves.
func (s *Service) StartWorkers(ctx context.Context) {
	s.workerPool.Start(ctx)
}

// Run starts the recompute process in a loop.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Achievements.Enabled {
		log.Println("Achievements recompute is disabled. Not starting.")
		return
	}
	log.Println("Starting achievements service...")

	s.StartWorkers(ctx)

	s.RecomputeOnce(ctx)

	timer := time.NewTimer(s.cfg.Achievements.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Achievements service shutting down.")
			return
		case <-timer.C:
			s.RecomputeOnce(ctx)
			timer.Reset(s.cfg.Achievements.Interval)
		}
	}
}

// RecomputeOnce performs a single full recompute pass and blocks until
// every member has been processed.
func (s *Service) RecomputeOnce(ctx context.Context) {
	log.Println("Executing badge recompute cycle...")
	now := time.Now().UTC()

	memberIDs, err := s.store.MemberIDs(ctx)
	if err != nil {
		log.Printf("Error listing members for badge recompute: %v", err)
		return
	}
	if len(memberIDs) == 0 {
		return
	}

	lifetime, err := s.store.VisitCounts(ctx, time.Time{})
	if err != nil {
		log.Printf("Error counting lifetime visits: %v", err)
		return
	}

	rankings, err := s.computeRankings(ctx, now)
	if err != nil {
		log.Printf("Error computing ranking badges: %v", err)
		rankings = nil // personal badges are still worth recomputing
	}

	var wg sync.WaitGroup
	for _, id := range memberIDs {
		wg.Add(1)
		dispatched := s.workerPool.Dispatch(ctx, Job{
			MemberID:     id,
			AsOf:         now,
			RankingCodes: rankings[id],
			TotalVisits:  lifetime[id],
			done:         wg.Done,
		})
		if !dispatched {
			wg.Done()
			log.Println("Badge recompute cycle interrupted by shutdown")
			return
		}
	}
	wg.Wait()

	log.Printf("Badge recompute cycle finished for %d members", len(memberIDs))
}

// computeRankings assigns the ranking badges (single top performer and
// top-N per period) from visit counts. Ties break toward the lower member
// ID so reruns over unchanged data stay stable.
func (s *Service) computeRankings(ctx context.Context, now time.Time) (map[int64][]string, error) {
	rankings := make(map[int64][]string)

	for _, b := range badge.All(true) {
		if !badge.IsRanking(b.Code) || b.PeriodDays <= 0 {
			continue
		}
		topN := b.MaxRank
		if b.Rank == 1 {
			topN = 1
		}

		counts, err := s.store.VisitCounts(ctx, now.AddDate(0, 0, -b.PeriodDays))
		if err != nil {
			return nil, err
		}

		type entry struct {
			memberID int64
			total    int64
		}
		entries := make([]entry, 0, len(counts))
		for id, total := range counts {
			if total > 0 {
				entries = append(entries, entry{memberID: id, total: total})
			}
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].total != entries[j].total {
				return entries[i].total > entries[j].total
			}
			return entries[i].memberID < entries[j].memberID
		})

		for i := 0; i < topN && i < len(entries); i++ {
			id := entries[i].memberID
			rankings[id] = append(rankings[id], b.Code)
		}
	}

	return rankings, nil
}
