package services

import (
	"context"
	"fmt"
	"strings"

	reqcontext "github.com/kerem-kaynak/tunes/internal/context"
	"github.com/kerem-kaynak/tunes/internal/entity"
	"github.com/kerem-kaynak/tunes/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	tableExistsQuery = `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = ?)`
	listColumnsQuery = `SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position`
)

var legacyMetadataColumns = []string{"id", "file_name", "file_id"}

type MusicService struct {
	db                *gorm.DB
	logger            *zap.Logger
	legacyFlagColumns bool
}

type Option func(*MusicService)

// WithLegacyFlagColumns keeps file_location eligible as a playlist column,
// matching the exclusion rules of older clients.
func WithLegacyFlagColumns(enabled bool) Option {
	return func(s *MusicService) {
		s.legacyFlagColumns = enabled
	}
}

func NewMusicService(db *gorm.DB, logger *zap.Logger, opts ...Option) *MusicService {
	s := &MusicService{db: db, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUserMusic returns every track in the user's table together with the
// user's playlist flags. Schema is looked up again on every call.
func (s *MusicService) GetUserMusic(ctx context.Context, userID string) ([]*entity.ResultRow, error) {
	table, err := utils.TableNameForUser(userID)
	if err != nil {
		return nil, err
	}

	logger := reqcontext.Logger(ctx, s.logger).With(zap.String("table", table))
	logger.Info("Looking for table")

	var tracks []*entity.ResultRow
	err = s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		tx := conn.Session(&gorm.Session{NewDB: true})

		exists, err := tableExists(tx, table)
		if err != nil {
			return err
		}
		if !exists {
			logger.Warn("Table does not exist")
			return tableAbsent(table)
		}

		columns, err := listColumns(tx, table)
		if err != nil {
			return err
		}
		for _, column := range columns {
			logger.Debug("Column", zap.String("column", column.Name), zap.String("type", column.DataType))
		}
		if len(columns) == 0 {
			logger.Warn("No columns found for table")
			return noColumns(table)
		}

		flags := FlagColumns(entity.ColumnNames(columns), s.legacyFlagColumns)
		if len(flags) == 0 {
			logger.Warn("No playlist columns found for table")
			return noFlagColumns()
		}
		logger.Info("Playlist columns found", zap.Strings("columns", flags))

		cursor, err := projectRows(tx, table, flags)
		if err != nil {
			return err
		}
		defer cursor.Close()

		tracks, err = collectRows(cursor)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Returning tracks", zap.Int("count", len(tracks)))
	return tracks, nil
}

func tableExists(tx *gorm.DB, table string) (bool, error) {
	var exists bool
	if err := tx.Raw(tableExistsQuery, table).Row().Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check whether table %s exists: %w", table, err)
	}
	return exists, nil
}

func listColumns(tx *gorm.DB, table string) ([]entity.ColumnDescriptor, error) {
	var columns []entity.ColumnDescriptor
	if err := tx.Raw(listColumnsQuery, table).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("failed to list columns of table %s: %w", table, err)
	}
	return columns, nil
}

// FlagColumns returns the playlist columns among columns, in their original
// order. Metadata columns are skipped regardless of case.
func FlagColumns(columns []string, legacy bool) []string {
	excluded := entity.FixedColumns
	if legacy {
		excluded = legacyMetadataColumns
	}

	var flags []string
	for _, column := range columns {
		if !containsFold(excluded, column) {
			flags = append(flags, column)
		}
	}
	return flags
}

// BuildProjection returns the SELECT statement for the fixed columns plus
// flags. Names cannot be bound as parameters, so each one is quoted and the
// table name is checked again before it is embedded.
func BuildProjection(table string, flags []string) (string, error) {
	if !utils.ValidTableName(table) {
		return "", fmt.Errorf("refusing to query table with unexpected name %q", table)
	}

	columns := projectedColumns(flags)
	quoted := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = utils.QuoteIdentifier(column)
	}

	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), utils.QuoteIdentifier(table)), nil
}

func projectedColumns(flags []string) []string {
	columns := make([]string, 0, len(entity.FixedColumns)+len(flags))
	seen := make(map[string]struct{}, cap(columns))
	for _, column := range append(append([]string{}, entity.FixedColumns...), flags...) {
		if _, ok := seen[column]; ok {
			continue
		}
		seen[column] = struct{}{}
		columns = append(columns, column)
	}
	return columns
}

func projectRows(tx *gorm.DB, table string, flags []string) (*RowCursor, error) {
	query, err := BuildProjection(table, flags)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}

	cursor, err := newRowCursor(rows, projectedColumns(flags))
	if err != nil {
		rows.Close()
		return nil, err
	}
	return cursor, nil
}

func collectRows(cursor *RowCursor) ([]*entity.ResultRow, error) {
	tracks := []*entity.ResultRow{}
	for cursor.Next() {
		tracks = append(tracks, cursor.Row())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return tracks, nil
}

func containsFold(slice []string, item string) bool {
	for _, v := range slice {
		if strings.EqualFold(v, item) {
			return true
		}
	}
	return false
}
