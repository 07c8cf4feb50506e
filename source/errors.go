package source

import "fmt"

// SchemaReadError reports an unreadable source catalog or a missing table.
// It is deterministic given the schema and is never retried.
type SchemaReadError struct {
	Table string
	Err   error
}

func (e *SchemaReadError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema read failed: %v", e.Err)
	}
	return fmt.Sprintf("schema read failed for table %s: %v", e.Table, e.Err)
}

func (e *SchemaReadError) Unwrap() error {
	return e.Err
}
