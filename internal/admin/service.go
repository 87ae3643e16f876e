package admin

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	errors "github.com/mfgkeeper/manufacturer-maintenance/internal"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/database"
	"github.com/mfgkeeper/manufacturer-maintenance/internal/session"
)

const timeLayout = "2006-01-02 15:04:05"

type Service struct {
	manager   *database.Manager
	keepalive KeepaliveStatus
	logger    *slog.Logger
}

func NewService(manager *database.Manager, keepalive KeepaliveStatus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		manager:   manager,
		keepalive: keepalive,
		logger:    logger,
	}
}

func exportTables() []string {
	return []string{database.TableManufacturers, database.TablePersonnel, database.TableUsers}
}

// Dump reads all three tables. A single failed table read degrades to
// a null entry so the rest of the dump still lands.
func (s *Service) Dump(ctx context.Context) (map[string][]map[string]interface{}, error) {
	store, err := s.manager.Ensure(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseUnavailable
	}

	out := make(map[string][]map[string]interface{}, 3)
	for _, table := range exportTables() {
		rows, err := store.SelectMaps(ctx, table)
		if err != nil {
			s.logger.Warn("Dump: table read failed", "table", table, "error", err)
			rows = nil
		}
		out[table] = rows
	}
	return out, nil
}

// DumpTable exports one table, optionally narrowed by filters.
func (s *Service) DumpTable(ctx context.Context, table string, filters []database.Filter) (map[string][]map[string]interface{}, error) {
	known := false
	for _, t := range exportTables() {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return nil, errors.NewValidationError("未知的数据表", errors.ErrCodeValidationFailed)
	}

	store, err := s.manager.Ensure(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseUnavailable
	}

	rows, err := store.SelectMaps(ctx, table, filters...)
	if err != nil {
		s.logger.Error("DumpTable: read failed", "table", table, "error", err)
		return nil, errors.NewQueryError(fmt.Sprintf("查询失败: %v", err), err)
	}
	return map[string][]map[string]interface{}{table: rows}, nil
}

// Structure probes one row per table and compares the live column set
// with the layout the handlers expect. An empty table proves nothing
// and passes.
func (s *Service) Structure(ctx context.Context) (*StructureReport, error) {
	store, err := s.manager.Ensure(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseUnavailable
	}

	report := &StructureReport{
		ManufacturersStructureOK:    true,
		ManufacturersFields:         []string{},
		PersonnelStructureOK:        true,
		PersonnelFields:             []string{},
		ExpectedManufacturersFields: expectedManufacturerFields(),
		ExpectedPersonnelFields:     expectedPersonnelFields(),
	}

	if rows, err := store.SelectMaps(ctx, database.TableManufacturers, database.Limit(1)); err == nil && len(rows) > 0 {
		report.ManufacturersFields = sortedKeys(rows[0])
		report.ManufacturersStructureOK = sameFieldSet(report.ManufacturersFields, report.ExpectedManufacturersFields)
	}
	if rows, err := store.SelectMaps(ctx, database.TablePersonnel, database.Limit(1)); err == nil && len(rows) > 0 {
		report.PersonnelFields = sortedKeys(rows[0])
		report.PersonnelStructureOK = sameFieldSet(report.PersonnelFields, report.ExpectedPersonnelFields)
	}

	return report, nil
}

// Status summarizes process, database and keep-alive state for the
// status page.
func (s *Service) Status(sess *session.Session) *StatusView {
	connection := "断开"
	if _, ok := s.manager.Current(); ok {
		connection = "正常"
	}
	antiSleep := "已停止"
	if s.keepalive.Active() {
		antiSleep = "运行中"
	}

	info := map[string]string{
		"应用状态":  "运行中",
		"数据库连接": connection,
		"最后活动":  s.keepalive.LastActivity().Format(timeLayout),
		"用户角色":  sess.Role,
		"防休眠状态": antiSleep,
		"平台":    s.keepalive.Platform(),
	}

	return &StatusView{
		View:        "status",
		StatusInfo:  info,
		CurrentTime: time.Now().Format(timeLayout),
		User:        sess,
	}
}

func sortedKeys(row map[string]interface{}) []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sameFieldSet(live, expected []string) bool {
	if len(live) != len(expected) {
		return false
	}
	set := make(map[string]bool, len(expected))
	for _, field := range expected {
		set[field] = true
	}
	for _, field := range live {
		if !set[field] {
			return false
		}
	}
	return true
}
