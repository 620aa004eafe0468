package services

import (
	"database/sql"
	"fmt"

	"github.com/kerem-kaynak/tunes/internal/entity"
)

// RowCursor reads track rows one at a time. It cannot be rewound.
type RowCursor struct {
	rows    *sql.Rows
	names   []string
	index   map[string]int
	width   int
	current *entity.ResultRow
	err     error
}

func newRowCursor(rows *sql.Rows, names []string) (*RowCursor, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}

	index := make(map[string]int, len(columns))
	for i, column := range columns {
		if _, ok := index[column]; !ok {
			index[column] = i
		}
	}
	for _, name := range names {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("column %q missing from result set", name)
		}
	}

	return &RowCursor{
		rows:  rows,
		names: names,
		index: index,
		width: len(columns),
	}, nil
}

func (c *RowCursor) Next() bool {
	c.current = nil
	if c.err != nil || !c.rows.Next() {
		return false
	}

	values := make([]any, c.width)
	dest := make([]any, c.width)
	for i := range values {
		dest[i] = &values[i]
	}
	if err := c.rows.Scan(dest...); err != nil {
		c.err = fmt.Errorf("failed to scan row: %w", err)
		return false
	}

	row := entity.NewResultRow(len(c.names))
	for _, name := range c.names {
		value, err := entity.ValueOf(values[c.index[name]])
		if err != nil {
			c.err = fmt.Errorf("failed to read column %q: %w", name, err)
			return false
		}
		row.Set(name, value)
	}
	c.current = row
	return true
}

func (c *RowCursor) Row() *entity.ResultRow {
	return c.current
}

func (c *RowCursor) Err() error {
	if c.err != nil {
		return c.err
	}
	return c.rows.Err()
}

func (c *RowCursor) Close() error {
	return c.rows.Close()
}
