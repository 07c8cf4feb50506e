package migration

import "fmt"

// Result is the immutable record of one table's migration outcome. It is
// created when the table's load starts and finalized at commit or rollback.
// RowsAttempted equals RowsCommitted exactly when the table succeeded; a
// partial commit is never reported as success.
type Result struct {
	Table         string
	DestTable     string
	RowsAttempted int64
	RowsCommitted int64
	Err           error
}

// OK reports whether the table migrated completely.
func (r Result) OK() bool {
	return r.Err == nil && r.RowsAttempted == r.RowsCommitted
}

// Summary aggregates the per-table results of one migration run.
type Summary struct {
	TablesTotal   int
	TablesOK      int
	TablesFailed  int
	RowsCommitted int64
	Results       []Result
}

func (s *Summary) add(r Result) {
	s.TablesTotal++
	if r.OK() {
		s.TablesOK++
		s.RowsCommitted += r.RowsCommitted
	} else {
		s.TablesFailed++
	}
	s.Results = append(s.Results, r)
}

// Failed returns the results of every table that did not migrate.
func (s *Summary) Failed() []Result {
	var failed []Result
	for _, r := range s.Results {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// String renders the final one-line-per-table report.
func (s *Summary) String() string {
	out := fmt.Sprintf("migrated %d/%d tables (%d rows)", s.TablesOK, s.TablesTotal, s.RowsCommitted)
	for _, r := range s.Failed() {
		out += fmt.Sprintf("\n  FAILED %s [%s]: %v", r.Table, ErrorKind(r.Err), r.Err)
	}
	return out
}
