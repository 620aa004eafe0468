package entity

// ColumnDescriptor is one row of information_schema.columns for a user table.
type ColumnDescriptor struct {
	Name     string `gorm:"column:column_name" json:"name"`
	DataType string `gorm:"column:data_type" json:"data_type"`
}

// FixedColumns are selected for every track, in this order.
var FixedColumns = []string{"id", "file_name", "file_location", "file_id"}

func ColumnNames(columns []ColumnDescriptor) []string {
	names := make([]string, 0, len(columns))
	for _, column := range columns {
		names = append(names, column.Name)
	}
	return names
}
