package sqlscript

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Qualify joins a schema and table name. An empty schema leaves the table
// unqualified.
func Qualify(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}

// Insert describes a single INSERT statement with one or more rows.
type Insert struct {
	Table   string
	Columns []string
	Rows    [][]any
}

// SQL renders the statement. A single row is rendered on the VALUES line,
// several rows one per line.
func (i Insert) SQL() (string, error) {
	if i.Table == "" {
		return "", fmt.Errorf("sqlscript: insert without table")
	}
	if len(i.Columns) == 0 {
		return "", fmt.Errorf("sqlscript: insert into %s without columns", i.Table)
	}
	if len(i.Rows) == 0 {
		return "", fmt.Errorf("sqlscript: insert into %s without rows", i.Table)
	}

	tuples := make([]string, 0, len(i.Rows))
	for n, row := range i.Rows {
		if len(row) != len(i.Columns) {
			return "", fmt.Errorf("sqlscript: insert into %s row %d has %d values, want %d",
				i.Table, n, len(row), len(i.Columns))
		}
		values := make([]string, len(row))
		for c, v := range row {
			lit, err := Literal(v)
			if err != nil {
				return "", fmt.Errorf("insert into %s row %d column %s: %w", i.Table, n, i.Columns[c], err)
			}
			values[c] = lit
		}
		tuples = append(tuples, "("+strings.Join(values, ", ")+")")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s)\n", i.Table, strings.Join(i.Columns, ", "))
	if len(tuples) == 1 {
		b.WriteString("VALUES " + tuples[0] + ";")
	} else {
		b.WriteString("VALUES\n" + strings.Join(tuples, ",\n") + ";")
	}
	return b.String(), nil
}

// Statement is one SQL statement with an optional leading comment.
type Statement struct {
	Comment string
	SQL     string
}

// Script is an ordered batch of statements.
type Script struct {
	// Transactional wraps the rendered text in BEGIN/COMMIT.
	Transactional bool
	Statements    []Statement
}

// Add appends a raw statement.
func (s *Script) Add(comment, sql string) {
	s.Statements = append(s.Statements, Statement{Comment: comment, SQL: sql})
}

// AddInsert renders ins and appends it.
func (s *Script) AddInsert(comment string, ins Insert) error {
	sql, err := ins.SQL()
	if err != nil {
		return err
	}
	s.Add(comment, sql)
	return nil
}

// Len returns the number of statements, excluding transaction markers.
func (s *Script) Len() int {
	return len(s.Statements)
}

// String renders the whole script.
func (s *Script) String() string {
	var b bytes.Buffer
	_, _ = s.WriteTo(&b)
	return b.String()
}

// WriteTo renders the script into w. Statements are separated by newlines
// and commented statements by a blank line.
func (s *Script) WriteTo(w io.Writer) (int64, error) {
	var b bytes.Buffer
	if s.Transactional {
		b.WriteString("BEGIN;\n\n")
	}
	for n, st := range s.Statements {
		if st.Comment != "" {
			if n > 0 {
				b.WriteByte('\n')
			}
			for _, line := range strings.Split(st.Comment, "\n") {
				b.WriteString("-- " + line + "\n")
			}
		}
		b.WriteString(st.SQL)
		b.WriteByte('\n')
	}
	if s.Transactional {
		b.WriteString("\nCOMMIT;\n")
	}
	return b.WriteTo(w)
}
