package serviceimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/PayRam/go-dbquery/internal/db"
	"github.com/PayRam/go-dbquery/models"
	"github.com/PayRam/go-dbquery/queryerr"
	"github.com/PayRam/go-dbquery/request"
	"github.com/PayRam/go-dbquery/response"
	"github.com/PayRam/go-dbquery/utils"
)

var (
	testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	sqliteOpts = Options{FAQTable: "cheery_exeedcars_faq", MenuTable: "sys_menu", Logger: testLogger}
	baseTime   = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
)

// newProvider opens a SQLite file in a temp dir with the local schema.
func newProvider(t *testing.T) (*db.Provider, *gorm.DB) {
	t.Helper()
	provider, err := db.NewProvider(db.Config{
		Driver:         db.DriverSQLite,
		Path:           filepath.Join(t.TempDir(), "test.db"),
		PoolMode:       db.PoolModePool,
		MaxOpenConns:   4,
		MaxIdleConns:   2,
		ConnectTimeout: 5 * time.Second,
		QueryTimeout:   5 * time.Second,
	}, testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Release() })

	gdb, err := provider.Init(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.MigrateLocal(gdb, testLogger))
	return provider, gdb
}

func seedFAQ(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	rows := []models.FAQ{
		{ID: uuid.New(), Question: "Battery charging time", Answer: "About 8 hours.", TicketType: utils.StringPtr("consultation"), IssueModule: utils.StringPtr("charging"), CreateAt: baseTime},
		{ID: uuid.New(), Question: "battery warning light", Answer: "Contact roadside assistance.", TicketType: utils.StringPtr("complaint"), IssueModule: utils.StringPtr("charging"), CreateAt: baseTime.Add(time.Hour)},
		{ID: uuid.New(), Question: "Replace the BATTERY", Answer: "Book a service appointment.", TicketType: utils.StringPtr("complaint"), IssueModule: utils.StringPtr("maintenance"), CreateAt: baseTime.Add(2 * time.Hour)},
		{ID: uuid.New(), Question: "How to pair phone", Answer: "Settings > Bluetooth.", TicketType: utils.StringPtr("consultation"), IssueModule: utils.StringPtr("infotainment"), CreateAt: baseTime.Add(3 * time.Hour)},
		{ID: uuid.New(), Question: "100% discount_code?", Answer: "Not available.", TicketType: utils.StringPtr("consultation"), IssueModule: utils.StringPtr("promo"), CreateAt: baseTime.Add(4 * time.Hour)},
	}
	require.NoError(t, gdb.Create(&rows).Error)
}

func seedMenu(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	rows := []models.Menu{
		{MenuID: 1, MenuName: "System", ParentID: 0, MenuType: "M", Sort: 1, IsDisable: "0", CreateTime: baseTime},
		{MenuID: 2, MenuName: "Users", ParentID: 1, MenuType: "C", Sort: 1, IsDisable: "0", CreateTime: baseTime.Add(time.Hour)},
		{MenuID: 3, MenuName: "Legacy reports", ParentID: 1, MenuType: "C", Sort: 2, IsDisable: "1", CreateTime: baseTime.Add(2 * time.Hour)},
		{MenuID: 4, MenuName: "Old audit", ParentID: 2, MenuType: "F", Sort: 1, IsDisable: "1", CreateTime: baseTime.Add(3 * time.Hour)},
		{MenuID: 5, MenuName: "Roles", ParentID: 1, MenuType: "C", Sort: 1, IsDisable: "0", CreateTime: baseTime.Add(4 * time.Hour)},
	}
	require.NoError(t, gdb.Create(&rows).Error)
}

func columnValues(rows []response.Row, column string) []any {
	out := make([]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, r[column])
	}
	return out
}

func TestQueryFAQ_KeywordOrderedNewestFirst(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	svc := NewFAQService(provider, sqliteOpts)

	rows, err := svc.QueryFAQ(context.Background(), request.QueryFAQRequest{
		Question: utils.StringPtr("battery"),
		Limit:    utils.IntPtr(5),
	})
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []any{"Replace the BATTERY", "battery warning light", "Battery charging time"}, columnValues(rows, "question"))
	for _, r := range rows {
		assert.Len(t, r, 2, "only question and answer are selected")
		assert.Contains(t, r, "answer")
	}
}

func TestQueryFAQ_CombinedFilters(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	svc := NewFAQService(provider, sqliteOpts)

	rows, err := svc.QueryFAQ(context.Background(), request.QueryFAQRequest{
		Question:    utils.StringPtr("battery"),
		TicketType:  utils.StringPtr("complaint"),
		IssueModule: utils.StringPtr("charging"),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"battery warning light"}, columnValues(rows, "question"))
}

func TestQueryFAQ_LimitApplied(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	svc := NewFAQService(provider, sqliteOpts)

	rows, err := svc.QueryFAQ(context.Background(), request.QueryFAQRequest{Limit: utils.IntPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, []any{"100% discount_code?", "How to pair phone"}, columnValues(rows, "question"))
}

func TestQueryFAQ_KeywordMetacharactersMatchLiterally(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	svc := NewFAQService(provider, sqliteOpts)

	rows, err := svc.QueryFAQ(context.Background(), request.QueryFAQRequest{Question: utils.StringPtr("_")})
	require.NoError(t, err)
	assert.Equal(t, []any{"100% discount_code?"}, columnValues(rows, "question"))

	rows, err = svc.QueryFAQ(context.Background(), request.QueryFAQRequest{Question: utils.StringPtr("%")})
	require.NoError(t, err)
	assert.Equal(t, []any{"100% discount_code?"}, columnValues(rows, "question"))
}

func TestQueryFAQ_FullRowsRenderIdentifiersAsStrings(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	opts := sqliteOpts
	opts.FAQFullRows = true
	svc := NewFAQService(provider, opts)

	rows, err := svc.QueryFAQ(context.Background(), request.QueryFAQRequest{IssueModule: utils.StringPtr("promo")})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	id, ok := rows[0]["id"].(string)
	require.True(t, ok, "id should be a string, got %T", rows[0]["id"])
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, "promo", rows[0]["issue_module"])

	_, err = json.Marshal(rows)
	assert.NoError(t, err)
}

func TestQueryFAQ_NoMatches(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	svc := NewFAQService(provider, sqliteOpts)

	rows, err := svc.QueryFAQ(context.Background(), request.QueryFAQRequest{Question: utils.StringPtr("warp drive")})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestQueryMenu_Disabled(t *testing.T) {
	provider, gdb := newProvider(t)
	seedMenu(t, gdb)
	svc := NewMenuService(provider, sqliteOpts)

	rows, err := svc.QueryMenu(context.Background(), request.QueryMenuRequest{
		IsDisable: utils.StringPtr(request.MenuDisabled),
		Limit:     utils.IntPtr(10),
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"Old audit", "Legacy reports"}, columnValues(rows, "menu_name"))
	for _, r := range rows {
		assert.Equal(t, "1", r["is_disable"])
	}
}

func TestQueryMenu_ParentOrderedBySortThenNewest(t *testing.T) {
	provider, gdb := newProvider(t)
	seedMenu(t, gdb)
	svc := NewMenuService(provider, sqliteOpts)

	rows, err := svc.QueryMenu(context.Background(), request.QueryMenuRequest{ParentID: utils.Int64Ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, []any{"Roles", "Users", "Legacy reports"}, columnValues(rows, "menu_name"))
}

func TestQueryMenu_RootParentZero(t *testing.T) {
	provider, gdb := newProvider(t)
	seedMenu(t, gdb)
	svc := NewMenuService(provider, sqliteOpts)

	rows, err := svc.QueryMenu(context.Background(), request.QueryMenuRequest{ParentID: utils.Int64Ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, []any{"System"}, columnValues(rows, "menu_name"))
}

func TestQueryMenu_NameAndType(t *testing.T) {
	provider, gdb := newProvider(t)
	seedMenu(t, gdb)
	svc := NewMenuService(provider, sqliteOpts)

	rows, err := svc.QueryMenu(context.Background(), request.QueryMenuRequest{
		MenuName: utils.StringPtr("USER"),
		MenuType: utils.StringPtr("C"),
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"Users"}, columnValues(rows, "menu_name"))
}

func TestValidationRejectedBeforeDatabaseAccess(t *testing.T) {
	// The provider points at a directory that does not exist; any database
	// access would surface as a Connection error.
	provider, err := db.NewProvider(db.Config{
		Driver: db.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "missing", "dir", "test.db"),
	}, testLogger)
	require.NoError(t, err)

	_, err = NewFAQService(provider, sqliteOpts).QueryFAQ(context.Background(), request.QueryFAQRequest{Limit: utils.IntPtr(0)})
	assert.True(t, queryerr.IsValidation(err))

	_, err = NewMenuService(provider, sqliteOpts).QueryMenu(context.Background(), request.QueryMenuRequest{Limit: utils.IntPtr(101)})
	assert.True(t, queryerr.IsValidation(err))

	_, err = NewMenuService(provider, sqliteOpts).QueryMenu(context.Background(), request.QueryMenuRequest{IsDisable: utils.StringPtr("yes")})
	assert.True(t, queryerr.IsValidation(err))

	_, err = NewFAQService(provider, sqliteOpts).QueryFAQ(context.Background(), request.QueryFAQRequest{})
	assert.True(t, queryerr.IsConnection(err), "got %v", err)
}

func TestQueryExecutionError(t *testing.T) {
	provider, _ := newProvider(t)
	opts := sqliteOpts
	opts.FAQTable = "no_such_table"
	opts.MenuTable = "no_such_table"

	_, err := NewFAQService(provider, opts).QueryFAQ(context.Background(), request.QueryFAQRequest{})
	require.Error(t, err)
	assert.True(t, queryerr.IsQueryExecution(err), "got %v", err)
	assert.Contains(t, err.Error(), "no such table")

	_, err = NewStatisticsService(provider, opts).GetMenuStatistics(context.Background())
	require.Error(t, err)
	assert.True(t, queryerr.IsQueryExecution(err), "got %v", err)
}

func TestQueryTimeoutBoundsEveryRoundTrip(t *testing.T) {
	seeded, gdb := newProvider(t)
	seedFAQ(t, gdb)
	seedMenu(t, gdb)

	cfg := seeded.Config()
	cfg.QueryTimeout = time.Nanosecond
	provider, err := db.NewProvider(cfg, testLogger)
	require.NoError(t, err)
	t.Cleanup(func() { provider.Release() })
	_, err = provider.Init(context.Background())
	require.NoError(t, err)

	_, err = NewFAQService(provider, sqliteOpts).QueryFAQ(context.Background(), request.QueryFAQRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	stats := NewStatisticsService(provider, sqliteOpts)
	_, err = stats.GetFAQStatistics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = stats.GetMenuStatistics(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGetFAQStatistics(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	svc := NewStatisticsService(provider, sqliteOpts)

	stats, err := svc.GetFAQStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalCount)
	assert.Equal(t, []response.TicketTypeCount{
		{TicketType: utils.StringPtr("complaint"), Count: 2},
		{TicketType: utils.StringPtr("consultation"), Count: 3},
	}, stats.TicketTypeStats)
	assert.Equal(t, []response.IssueModuleCount{
		{IssueModule: utils.StringPtr("charging"), Count: 2},
		{IssueModule: utils.StringPtr("infotainment"), Count: 1},
		{IssueModule: utils.StringPtr("maintenance"), Count: 1},
		{IssueModule: utils.StringPtr("promo"), Count: 1},
	}, stats.IssueModuleStats)
}

func TestGetFAQStatistics_EmptyTable(t *testing.T) {
	provider, _ := newProvider(t)
	svc := NewStatisticsService(provider, sqliteOpts)

	stats, err := svc.GetFAQStatistics(context.Background())
	require.NoError(t, err)

	out, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_count":0,"ticket_type_stats":[],"issue_module_stats":[]}`, string(out))
}

func TestGetMenuStatistics(t *testing.T) {
	provider, gdb := newProvider(t)
	seedMenu(t, gdb)
	svc := NewStatisticsService(provider, sqliteOpts)

	stats, err := svc.GetMenuStatistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalCount)
	assert.Equal(t, []response.MenuTypeCount{
		{MenuType: utils.StringPtr("C"), Count: 3},
		{MenuType: utils.StringPtr("F"), Count: 1},
		{MenuType: utils.StringPtr("M"), Count: 1},
	}, stats.MenuTypeStats)
	assert.Equal(t, []response.MenuStatusCount{
		{IsDisable: utils.StringPtr("0"), Count: 3},
		{IsDisable: utils.StringPtr("1"), Count: 2},
	}, stats.StatusStats)
}

func TestConcurrentOperationsDoNotInterfere(t *testing.T) {
	provider, gdb := newProvider(t)
	seedFAQ(t, gdb)
	seedMenu(t, gdb)
	faq := NewFAQService(provider, sqliteOpts)
	menu := NewMenuService(provider, sqliteOpts)
	stats := NewStatisticsService(provider, sqliteOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 60)
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			rows, err := faq.QueryFAQ(ctx, request.QueryFAQRequest{TicketType: utils.StringPtr("complaint")})
			if err == nil && len(rows) != 2 {
				err = fmt.Errorf("faq: got %d rows", len(rows))
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			rows, err := menu.QueryMenu(ctx, request.QueryMenuRequest{ParentID: utils.Int64Ptr(2)})
			if err == nil && len(rows) != 1 {
				err = fmt.Errorf("menu: got %d rows", len(rows))
			}
			errs <- err
		}()
		go func() {
			defer wg.Done()
			s, err := stats.GetMenuStatistics(ctx)
			if err == nil && s.TotalCount != 5 {
				err = fmt.Errorf("stats: got total %d", s.TotalCount)
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}
