package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"sauna-admin-backend/config"
	"sauna-admin-backend/internal/achievements"
	"sauna-admin-backend/internal/api"
	"sauna-admin-backend/internal/classify"
	"sauna-admin-backend/internal/model"
	"sauna-admin-backend/internal/store"
)

// TestMembershipLifecycle seeds a realistic association roster into an
// in-memory database, runs a full badge recompute pass, and verifies both
// the derived classifications and the HTTP API on top of them.
func TestMembershipLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 1. Setup an in-memory SQLite database for testing.
	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to the in-memory database")
	sqlDB, _ := testDB.DB()
	defer sqlDB.Close()

	err = testDB.AutoMigrate(
		&model.Member{},
		&model.Payment{},
		&model.Visit{},
		&model.AccessCredential{},
		&model.HouseholdRelation{},
		&model.Invoice{},
		&model.MemberBadge{},
	)
	require.NoError(t, err)

	now := time.Now().UTC()

	// 2. Seed the roster.
	// Member 1: paid up, visits often, holds an RFID fob.
	// Member 2: on the waiting list via a recent queue fee.
	// Member 3: co-bather in member 1's household, app credential only.
	// Member 4: lapsed years ago.
	// Member 5: queued per the accounting system despite a fresh payment.
	members := []model.Member{
		{ID: 1, FirstName: "Aino", LastName: "Koskinen", JoinedAt: now.AddDate(-2, 0, 0)},
		{ID: 2, FirstName: "Bertil", LastName: "Lindqvist", JoinedAt: now.AddDate(0, -1, 0)},
		{ID: 3, FirstName: "Cecilia", LastName: "Koskinen", JoinedAt: now.AddDate(0, -6, 0)},
		{ID: 4, FirstName: "Daniel", LastName: "Ek", JoinedAt: now.AddDate(-5, 0, 0)},
		{ID: 5, FirstName: "Elin", LastName: "Sund", AccountingStatus: "queued", JoinedAt: now.AddDate(0, -2, 0)},
	}
	require.NoError(t, testDB.Create(&members).Error)

	payments := []model.Payment{
		{MemberID: 1, Kind: model.PaymentKindAnnual, PaidAt: now.AddDate(0, -2, 0), AmountCents: 15000},
		{MemberID: 2, Kind: model.PaymentKindQueue, PaidAt: now.AddDate(0, -1, 0), AmountCents: 2500},
		{MemberID: 4, Kind: model.PaymentKindAnnual, PaidAt: now.AddDate(-3, 0, 0), AmountCents: 12000},
		{MemberID: 5, Kind: model.PaymentKindAnnual, PaidAt: now.AddDate(0, -1, 0), AmountCents: 15000},
	}
	require.NoError(t, testDB.Create(&payments).Error)

	credentials := []model.AccessCredential{
		{MemberID: 1, Kind: model.CredentialKindRFID, Identifier: "fob-0001"},
		{MemberID: 3, Kind: model.CredentialKindMobile, Identifier: "app-cecilia"},
	}
	require.NoError(t, testDB.Create(&credentials).Error)

	require.NoError(t, testDB.Create(&model.HouseholdRelation{
		PrimaryMemberID: 1, DependentMemberID: 3,
	}).Error)

	// Member 1: three consecutive days plus older visits, ten in total.
	var visits []model.Visit
	for d := 0; d < 3; d++ {
		visits = append(visits, model.Visit{MemberID: 1, VisitedAt: day(now, -d, 10)})
	}
	for _, d := range []int{5, 7, 9, 11, 13, 15, 17} {
		visits = append(visits, model.Visit{MemberID: 1, VisitedAt: day(now, -d, 10)})
	}
	require.NoError(t, testDB.Create(&visits).Error)

	invoices := []model.Invoice{
		{MemberID: 1, Reference: uuid.New(), Kind: model.PaymentKindAnnual, AmountCents: 15000, DueAt: now.AddDate(0, -2, 14), PaidAt: &payments[0].PaidAt, Status: model.InvoiceStatusPaid},
		{MemberID: 1, Reference: uuid.New(), Kind: model.PaymentKindAnnual, AmountCents: 15000, DueAt: now.AddDate(0, 1, 0), Status: model.InvoiceStatusOpen},
	}
	require.NoError(t, testDB.Create(&invoices).Error)

	appStore := store.NewGormStore(testDB)
	classifier := classify.New()
	ctx := context.Background()

	t.Run("Classification over live data", func(t *testing.T) {
		roster, err := appStore.Roster(ctx)
		require.NoError(t, err)
		require.Len(t, roster, 5)

		categories := make(map[int64]classify.Category, len(roster))
		for _, s := range roster {
			categories[s.Member.ID] = classifier.Classify(s.Facts, now)
		}

		assert.Equal(t, classify.CategoryMember, categories[1])
		assert.Equal(t, classify.CategoryQueued, categories[2])
		assert.Equal(t, classify.CategoryCoBather, categories[3])
		assert.Equal(t, classify.CategoryInactive, categories[4])
		assert.Equal(t, classify.CategoryQueued, categories[5],
			"the accounting system's queued flag wins over a fresh payment")

		facts, err := appStore.MemberFacts(ctx, 1)
		require.NoError(t, err)
		assert.True(t, facts.HasAccessCredential)
		assert.False(t, facts.HouseholdDependent)
		require.NotNil(t, facts.LastAnnualFeeAt)
		require.NotNil(t, facts.LastVisitAt)
		assert.Nil(t, facts.LastQueueFeeAt)
		assert.True(t, classifier.IsActive(facts, now))
	})

	t.Run("Badge recompute awards and revokes", func(t *testing.T) {
		// A stale dynamic badge that must be revoked and a permanent badge
		// that must survive.
		require.NoError(t, testDB.Create(&[]model.MemberBadge{
			{MemberID: 1, Code: "night_owl", EarnedAt: now.AddDate(0, -3, 0)},
			{MemberID: 1, Code: "visits_1000", EarnedAt: now.AddDate(-1, 0, 0)},
		}).Error)

		cfg := &config.Config{}
		cfg.WorkerPool.Size = 4
		cfg.Achievements.Enabled = true
		cfg.Achievements.Interval = time.Hour

		svc := achievements.NewService(cfg, appStore)
		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		svc.StartWorkers(runCtx)
		svc.RecomputeOnce(runCtx)

		earned, err := appStore.MemberBadges(ctx, 1)
		require.NoError(t, err)
		codes := make([]string, len(earned))
		for i, b := range earned {
			codes[i] = b.Code
		}

		assert.Contains(t, codes, "streak_3_days")
		assert.Contains(t, codes, "weekly_regular")
		assert.Contains(t, codes, "visits_10")
		assert.Contains(t, codes, "member_1_year")
		assert.Contains(t, codes, "most_visits_week", "sole visitor is bather of the week")
		assert.Contains(t, codes, "most_visits_month")
		assert.Contains(t, codes, "visits_1000", "permanent badges survive the recompute")
		assert.NotContains(t, codes, "night_owl", "unearned dynamic badges are revoked")

		queueBadges, err := appStore.MemberBadges(ctx, 2)
		require.NoError(t, err)
		assert.Empty(t, queueBadges, "a member without visits earns nothing")
	})

	// A generous rate limit so the suite's request volume stays inside
	// the limiter's bucket.
	serverCfg := config.ServerConfig{RateLimitPerSec: 1000, CacheTTLSeconds: 60}
	router := api.NewRouter(appStore, classifier, serverCfg)
	get := func(t *testing.T, path string, out any) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		if out != nil && w.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
		}
		return w.Code
	}

	t.Run("API: member roster carries categories", func(t *testing.T) {
		var roster []struct {
			ID       int64             `json:"id"`
			Category classify.Category `json:"category"`
			IsActive bool              `json:"is_active"`
		}
		code := get(t, "/api/members", &roster)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, roster, 5)

		byID := make(map[int64]classify.Category)
		for _, r := range roster {
			byID[r.ID] = r.Category
		}
		assert.Equal(t, classify.CategoryMember, byID[1])
		assert.Equal(t, classify.CategoryQueued, byID[2])
		assert.Equal(t, classify.CategoryCoBather, byID[3])
		assert.Equal(t, classify.CategoryInactive, byID[4])
		assert.Equal(t, classify.CategoryQueued, byID[5])
	})

	t.Run("API: member detail includes decorated badges", func(t *testing.T) {
		var detail struct {
			ID       int64             `json:"id"`
			Category classify.Category `json:"category"`
			Badges   []struct {
				Code        string `json:"code"`
				Emoji       string `json:"emoji"`
				DisplayName string `json:"display_name"`
			} `json:"badges"`
		}
		code := get(t, "/api/members/1", &detail)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, int64(1), detail.ID)
		assert.Equal(t, classify.CategoryMember, detail.Category)
		require.NotEmpty(t, detail.Badges)
		for _, b := range detail.Badges {
			assert.NotEmpty(t, b.Emoji, "badge %q should be decorated from the catalog", b.Code)
			assert.NotEmpty(t, b.DisplayName)
		}
	})

	t.Run("API: unknown member is 404", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, "/api/members/999", nil))
		assert.Equal(t, http.StatusNotFound, get(t, "/api/members/999/badges", nil))
		assert.Equal(t, http.StatusNotFound, get(t, "/api/members/999/invoices", nil))
		assert.Equal(t, http.StatusBadRequest, get(t, "/api/members/abc", nil))
	})

	t.Run("API: badge catalog", func(t *testing.T) {
		var catalog []struct {
			Code    string `json:"code"`
			Dynamic bool   `json:"dynamic"`
		}
		code := get(t, "/api/badges", &catalog)
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, catalog, 24)

		var dynamicOnly []struct {
			Code    string `json:"code"`
			Dynamic bool   `json:"dynamic"`
		}
		code = get(t, "/api/badges?dynamic=true", &dynamicOnly)
		require.Equal(t, http.StatusOK, code)
		assert.NotEmpty(t, dynamicOnly)
		for _, b := range dynamicOnly {
			assert.True(t, b.Dynamic)
		}
	})

	t.Run("API: visit statistics", func(t *testing.T) {
		var stats struct {
			TotalVisits int64 `json:"total_visits"`
			Members     []struct {
				MemberID int64 `json:"member_id"`
				Visits   int64 `json:"visits"`
			} `json:"members"`
		}
		code := get(t, "/api/stats/visits?months=1", &stats)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, int64(10), stats.TotalVisits)
		require.Len(t, stats.Members, 1)
		assert.Equal(t, int64(1), stats.Members[0].MemberID)
		assert.Equal(t, int64(10), stats.Members[0].Visits)

		assert.Equal(t, http.StatusBadRequest, get(t, "/api/stats/visits?months=zero", nil))
	})

	t.Run("API: sustained reads stay inside the rate limit", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			require.Equal(t, http.StatusOK, get(t, "/api/badges", nil))
		}
	})

	t.Run("API: member invoices", func(t *testing.T) {
		var got []model.Invoice
		code := get(t, "/api/members/1/invoices", &got)
		require.Equal(t, http.StatusOK, code)
		require.Len(t, got, 2)
		assert.Equal(t, model.InvoiceStatusOpen, got[0].Status, "newest due date first")
		assert.Equal(t, model.InvoiceStatusPaid, got[1].Status)
	})
}

func day(now time.Time, offset int, hour int) time.Time {
	d := now.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 15, 0, 0, time.UTC)
}
