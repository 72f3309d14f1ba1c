package types

type TableRow struct {
	Cells []any
}

type Table struct {
	Rows    []TableRow
	Columns []TableColumnDefinition
}

func (p Table) GetItems() any {
	return p.Rows
}

func (p Table) GetTable() (Table, error) {
	return p, nil
}

// Taken from kubectl
type TableColumnDefinition struct {
	// name is a human readable name for the column.
	Name string `json:"name"`
	// type is an OpenAPI type definition for this column, such as number, integer, string, or
	// array.
	Type string `json:"type"`
	// description is a human readable description of this column.
	Description string `json:"description"`
}

func (t *TableColumnDefinition) Formatter() string {
	switch t.Type {
	case "integer":
		return "%d"
	case "number":
		return "%f"
	case "boolean":
		return "%t"
	case "string":
		return "%s"
	}
	return "%v"
}
