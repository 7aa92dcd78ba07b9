package flattener

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonenv/internal/models"
)

func TestFlatten_ScalarRoots(t *testing.T) {
	tests := []struct {
		name       string
		value      models.Value
		wantValue  string
		wantString bool
	}{
		{"string", "hello", "hello", true},
		{"integer", json.Number("42"), "42", false},
		{"float", json.Number("3.14"), "3.14", false},
		{"bool true", true, "true", false},
		{"bool false", false, "false", false},
		{"null", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := New(DefaultOptions()).Flatten(tt.value)
			require.Len(t, entries, 1)
			assert.Equal(t, "", entries[0].Key, "scalar root should flatten to an empty key")
			assert.Equal(t, tt.wantValue, entries[0].Value)
			assert.Equal(t, tt.wantString, entries[0].IsString)
		})
	}
}

func TestFlatten_NestedObjectComposesKeys(t *testing.T) {
	value := models.Object{
		{Key: "a", Value: models.Object{
			{Key: "b", Value: json.Number("1")},
		}},
	}

	entries := New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Key: "a__b", Value: "1"}, entries[0])
}

func TestFlatten_CustomKeySeparator(t *testing.T) {
	value := models.Object{
		{Key: "db", Value: models.Object{
			{Key: "host", Value: "localhost"},
		}},
	}

	opts := DefaultOptions()
	opts.KeySeparator = "."
	entries := New(opts).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, "db.host", entries[0].Key)
}

func TestFlatten_ArrayJoined(t *testing.T) {
	value := models.Object{
		{Key: "a", Value: models.Array{json.Number("1"), json.Number("2"), json.Number("3")}},
	}

	entries := New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Key: "a", Value: "1,2,3", IsString: true}, entries[0])
}

func TestFlatten_ArrayJoinedCustomSeparator(t *testing.T) {
	value := models.Object{
		{Key: "tags", Value: models.Array{"a", "b", "c"}},
	}

	opts := DefaultOptions()
	opts.ArraySeparator = ";"
	entries := New(opts).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, "a;b;c", entries[0].Value)
}

func TestFlatten_ArrayEnumerated(t *testing.T) {
	value := models.Object{
		{Key: "a", Value: models.Array{json.Number("1"), json.Number("2")}},
	}

	opts := DefaultOptions()
	opts.EnumerateArray = true
	entries := New(opts).Flatten(value)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Key: "a__0", Value: "1"}, entries[0])
	assert.Equal(t, Entry{Key: "a__1", Value: "2"}, entries[1])
}

func TestFlatten_ArrayEnumeratedNested(t *testing.T) {
	value := models.Object{
		{Key: "servers", Value: models.Array{
			models.Object{{Key: "host", Value: "a"}},
			models.Object{{Key: "host", Value: "b"}},
		}},
	}

	opts := DefaultOptions()
	opts.EnumerateArray = true
	entries := New(opts).Flatten(value)
	require.Len(t, entries, 2)
	assert.Equal(t, "servers__0__host", entries[0].Key)
	assert.Equal(t, "servers__1__host", entries[1].Key)
}

func TestFlatten_NestedCollectionsCollapseIntoJoin(t *testing.T) {
	// With enumeration off, anything nested under an array collapses into a
	// single joined scalar.
	value := models.Object{
		{Key: "mixed", Value: models.Array{
			json.Number("1"),
			models.Array{json.Number("2"), json.Number("3")},
			models.Object{{Key: "x", Value: json.Number("4")}},
		}},
	}

	entries := New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, "1,2,3,4", entries[0].Value)
}

func TestFlatten_EmptyArray(t *testing.T) {
	value := models.Object{
		{Key: "empty", Value: models.Array{}},
	}

	entries := New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Key: "empty", Value: "", IsString: true}, entries[0])
}

func TestFlatten_EmptyObjectEmitsNothing(t *testing.T) {
	entries := New(DefaultOptions()).Flatten(models.Object{})
	assert.Empty(t, entries)

	value := models.Object{
		{Key: "meta", Value: models.Object{}},
		{Key: "name", Value: "svc"},
	}
	entries = New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, "name", entries[0].Key)
}

func TestFlatten_FalsyValuesPreserved(t *testing.T) {
	value := models.Object{
		{Key: "enabled", Value: false},
		{Key: "count", Value: json.Number("0")},
		{Key: "label", Value: ""},
		{Key: "missing", Value: nil},
	}

	entries := New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 4)
	assert.Equal(t, "false", entries[0].Value)
	assert.Equal(t, "0", entries[1].Value)
	assert.Equal(t, "", entries[2].Value)
	assert.Equal(t, "", entries[3].Value)
}

func TestFlatten_OrderPreserved(t *testing.T) {
	value := models.Object{
		{Key: "zebra", Value: json.Number("1")},
		{Key: "apple", Value: json.Number("2")},
		{Key: "mango", Value: models.Object{
			{Key: "ripe", Value: true},
			{Key: "color", Value: "green"},
		}},
	}

	entries := New(DefaultOptions()).Flatten(value)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"zebra", "apple", "mango__ripe", "mango__color"}, keys)
}

func TestFlatten_Deterministic(t *testing.T) {
	value := models.Object{
		{Key: "db", Value: models.Object{
			{Key: "host", Value: "localhost"},
			{Key: "port", Value: json.Number("5432")},
		}},
		{Key: "tags", Value: models.Array{"a", "b"}},
	}

	first := New(DefaultOptions()).Flatten(value)
	second := New(DefaultOptions()).Flatten(value)
	assert.Equal(t, first, second)
}

func TestFlatten_KeyCollisionLastWriteWins(t *testing.T) {
	// "a" containing the separator collides with the composed a__b path.
	value := models.Object{
		{Key: "a__b", Value: json.Number("1")},
		{Key: "a", Value: models.Object{
			{Key: "b", Value: json.Number("2")},
		}},
	}

	entries := New(DefaultOptions()).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Key: "a__b", Value: "2"}, entries[0], "later write should replace the value in the first-seen position")
}

func TestFlatten_Prefix(t *testing.T) {
	value := models.Object{
		{Key: "host", Value: "localhost"},
	}

	opts := DefaultOptions()
	opts.Prefix = "APP"
	entries := New(opts).Flatten(value)
	require.Len(t, entries, 1)
	assert.Equal(t, "APP__host", entries[0].Key)
}

func TestFlatten_PrefixOnScalarRoot(t *testing.T) {
	opts := DefaultOptions()
	opts.Prefix = "APP"
	entries := New(opts).Flatten("hello")
	require.Len(t, entries, 1)
	assert.Equal(t, Entry{Key: "APP", Value: "hello", IsString: true}, entries[0])
}

func TestFlatten_RenameModes(t *testing.T) {
	value := models.Object{
		{Key: "dbConfig", Value: models.Object{
			{Key: "maxConns", Value: json.Number("10")},
		}},
	}

	tests := []struct {
		rename string
		want   string
	}{
		{RenameNone, "dbConfig__maxConns"},
		{RenameUpper, "DBCONFIG__MAXCONNS"},
		{RenameLower, "dbconfig__maxconns"},
		{RenameSnake, "db_config__max_conns"},
		{RenameScreamingSnake, "DB_CONFIG__MAX_CONNS"},
	}

	for _, tt := range tests {
		t.Run(tt.rename, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Rename = tt.rename
			entries := New(opts).Flatten(value)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.want, entries[0].Key)
		})
	}
}

func TestFlatten_RenameSkipsIndexSegments(t *testing.T) {
	value := models.Object{
		{Key: "myTags", Value: models.Array{"a", "b"}},
	}

	opts := DefaultOptions()
	opts.Rename = RenameScreamingSnake
	opts.EnumerateArray = true
	entries := New(opts).Flatten(value)
	require.Len(t, entries, 2)
	assert.Equal(t, "MY_TAGS__0", entries[0].Key)
	assert.Equal(t, "MY_TAGS__1", entries[1].Key)
}

func TestOptions_Validate(t *testing.T) {
	opts := DefaultOptions()
	assert.NoError(t, opts.Validate())

	opts.KeySeparator = ""
	assert.Error(t, opts.Validate())

	opts = DefaultOptions()
	opts.Rename = "pascal"
	assert.Error(t, opts.Validate())

	// An empty array separator is allowed: elements simply concatenate.
	opts = DefaultOptions()
	opts.ArraySeparator = ""
	assert.NoError(t, opts.Validate())
}

func BenchmarkFlatten(b *testing.B) {
	value := models.Object{
		{Key: "service", Value: models.Object{
			{Key: "name", Value: "api"},
			{Key: "replicas", Value: json.Number("3")},
			{Key: "ports", Value: models.Array{json.Number("80"), json.Number("443")}},
			{Key: "env", Value: models.Object{
				{Key: "LOG_LEVEL", Value: "info"},
				{Key: "DEBUG", Value: false},
			}},
		}},
		{Key: "tags", Value: models.Array{"web", "prod", "v2"}},
	}
	opts := DefaultOptions()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		New(opts).Flatten(value)
	}
}
