package sqlscript

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualify(t *testing.T) {
	assert.Equal(t, "public.categories", Qualify("public", "categories"))
	assert.Equal(t, "categories", Qualify("", "categories"))
}

func TestInsert_SingleRow(t *testing.T) {
	ins := Insert{
		Table:   "public.products",
		Columns: []string{"id", "name_en", "is_active"},
		Rows:    [][]any{{"p-1", "Royal Musk", true}},
	}

	sql, err := ins.SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO public.products (id, name_en, is_active)\nVALUES ('p-1', 'Royal Musk', true);",
		sql)
}

func TestInsert_MultipleRows(t *testing.T) {
	ins := Insert{
		Table:   "public.categories",
		Columns: []string{"slug", "name_en"},
		Rows: [][]any{
			{"men", "Men"},
			{"women", "Women"},
		},
	}

	sql, err := ins.SQL()
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO public.categories (slug, name_en)\nVALUES\n('men', 'Men'),\n('women', 'Women');",
		sql)
}

func TestInsert_Errors(t *testing.T) {
	tests := []struct {
		name string
		ins  Insert
		want string
	}{
		{"no table", Insert{Columns: []string{"a"}, Rows: [][]any{{1}}}, "without table"},
		{"no columns", Insert{Table: "t", Rows: [][]any{{1}}}, "without columns"},
		{"no rows", Insert{Table: "t", Columns: []string{"a"}}, "without rows"},
		{"arity", Insert{Table: "t", Columns: []string{"a", "b"}, Rows: [][]any{{1}}}, "has 1 values, want 2"},
		{"bad literal", Insert{Table: "t", Columns: []string{"a"}, Rows: [][]any{{1.5}}}, "column a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ins.SQL()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScript_WriteTo_Transactional(t *testing.T) {
	s := &Script{Transactional: true}
	s.Add("Clear existing data", "TRUNCATE public.categories CASCADE;")
	require.NoError(t, s.AddInsert("Insert Categories", Insert{
		Table:   "public.categories",
		Columns: []string{"slug"},
		Rows:    [][]any{{"men"}},
	}))

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := "BEGIN;\n\n" +
		"-- Clear existing data\n" +
		"TRUNCATE public.categories CASCADE;\n" +
		"\n-- Insert Categories\n" +
		"INSERT INTO public.categories (slug)\nVALUES ('men');\n" +
		"\nCOMMIT;\n"
	assert.Equal(t, want, buf.String())
	assert.Equal(t, 2, s.Len())
}

func TestScript_String_NotTransactional(t *testing.T) {
	s := &Script{}
	s.Add("", "SELECT 1;")
	s.Add("", "SELECT 2;")

	out := s.String()
	assert.Equal(t, "SELECT 1;\nSELECT 2;\n", out)
	assert.False(t, strings.Contains(out, "BEGIN"))
}

func TestScript_MultilineComment(t *testing.T) {
	s := &Script{}
	s.Add("first\nsecond", "SELECT 1;")
	assert.Equal(t, "-- first\n-- second\nSELECT 1;\n", s.String())
}

func TestScript_AddInsert_ErrorLeavesScriptUnchanged(t *testing.T) {
	s := &Script{}
	err := s.AddInsert("bad", Insert{Table: "t"})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}
