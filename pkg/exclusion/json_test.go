package exclusion

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cloak/pkg/errors"
	"github.com/arthur-debert/cloak/pkg/filesystem"
	"github.com/arthur-debert/cloak/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tailscale/hujson"
)

func newJSON(t *testing.T, content string) (*JSONEditor, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ".vscode", "settings.json")
	if content != "" {
		testutil.CreateFile(t, dir, filepath.Join(".vscode", "settings.json"), content)
	}
	return NewJSONEditor(filesystem.NewOS(), path), path
}

func TestJSONAddToMissingFile(t *testing.T) {
	e, path := newJSON(t, "")
	testutil.CreateDir(t, filepath.Dir(path), "")

	changed, err := e.Add("**/.cursor")
	require.NoError(t, err)
	assert.True(t, changed)

	want := "{\n    \"files.exclude\": {\n        \"**/.cursor\": true\n    }\n}\n"
	assert.Equal(t, want, testutil.ReadFile(t, path))

	has, err := e.Has("**/.cursor")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestJSONAddPreservesFormatting(t *testing.T) {
	original := `{
  // editor preferences
  "editor.tabSize": 2,
  "files.exclude": {
    "**/node_modules": true /* keep */
  },
  "zeta": [1, 2]
}
`
	e, path := newJSON(t, original)

	changed, err := e.Add("**/.cursor")
	require.NoError(t, err)
	assert.True(t, changed)

	want := `{
  // editor preferences
  "editor.tabSize": 2,
  "files.exclude": {
    "**/node_modules": true /* keep */,
    "**/.cursor": true
  },
  "zeta": [1, 2]
}
`
	assert.Equal(t, want, testutil.ReadFile(t, path))
}

func TestJSONAddCreatesExcludeMapWithFileIndent(t *testing.T) {
	original := "{\n\t\"a\": 1\n}\n"
	e, path := newJSON(t, original)

	_, err := e.Add("**/.idea")
	require.NoError(t, err)

	want := "{\n\t\"a\": 1,\n\t\"files.exclude\": {\n\t\t\"**/.idea\": true\n\t}\n}\n"
	assert.Equal(t, want, testutil.ReadFile(t, path))
}

func TestJSONAddIsIdempotent(t *testing.T) {
	e, path := newJSON(t, "{\n    \"files.exclude\": {\n        \"**/.cursor\": true\n    }\n}\n")
	before := testutil.ReadFile(t, path)

	changed, err := e.Add("**/.cursor")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, before, testutil.ReadFile(t, path))
}

func TestJSONAddFlipsFalse(t *testing.T) {
	e, path := newJSON(t, "{\n    \"files.exclude\": {\n        \"**/.cursor\": false\n    }\n}\n")

	changed, err := e.Add("**/.cursor")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "{\n    \"files.exclude\": {\n        \"**/.cursor\": true\n    }\n}\n", testutil.ReadFile(t, path))
}

func TestJSONAddThenRemoveRestoresBytes(t *testing.T) {
	tests := []struct {
		name     string
		original string
	}{
		{"no_exclude_map", "{\n    \"editor.fontSize\": 14\n}\n"},
		{"existing_map", "{\n  \"files.exclude\": {\n    \"**/.git\": true\n  },\n  \"x\": 1\n}\n"},
		{"comments", "// top\n{\n    \"a\": \"b\" // trailing\n    ,\"c\": 2\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, path := newJSON(t, tt.original)

			_, err := e.Add("**/.cursor")
			require.NoError(t, err)
			changed, err := e.Remove("**/.cursor")
			require.NoError(t, err)
			assert.True(t, changed)

			assert.Equal(t, tt.original, testutil.ReadFile(t, path))
		})
	}
}

func TestJSONRemoveDropsLegacyKeyAndEmptyMap(t *testing.T) {
	e, path := newJSON(t, "{\n    \"a\": 1,\n    \"files.exclude\": {\n        \".cursor\": true,\n        \"**/.cursor\": true\n    }\n}\n")

	changed, err := e.Remove("**/.cursor")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", testutil.ReadFile(t, path))
}

func TestJSONRemoveDeletesFileLeftEmpty(t *testing.T) {
	e, path := newJSON(t, "")
	testutil.CreateDir(t, filepath.Dir(path), "")

	_, err := e.Add("**/.cursor")
	require.NoError(t, err)
	_, err = e.Remove("**/.cursor")
	require.NoError(t, err)

	assert.False(t, testutil.PathExists(t, path))
	assert.False(t, testutil.PathExists(t, filepath.Dir(path)), "emptied settings directory is removed")
}

func TestJSONRemoveKeepsDirectoryWithOtherFiles(t *testing.T) {
	e, path := newJSON(t, "")
	testutil.CreateFile(t, filepath.Dir(path), "launch.json", "{}\n")

	_, err := e.Add("**/.cursor")
	require.NoError(t, err)
	_, err = e.Remove("**/.cursor")
	require.NoError(t, err)

	assert.False(t, testutil.PathExists(t, path))
	assert.True(t, testutil.DirExists(t, filepath.Dir(path)))
}

func TestJSONAddWritesStrictJSON(t *testing.T) {
	tests := []struct {
		name     string
		original string
	}{
		{"missing_file", ""},
		{"empty_object", "{}\n"},
		{"one_line", `{"editor.tabSize": 2}`},
		{"multi_line", "{\n    \"editor.fontSize\": 14\n}\n"},
		{"existing_map", "{\n  \"files.exclude\": {\n    \"**/.git\": true\n  },\n  \"x\": 1\n}\n"},
		{"existing_false", "{\n  \"files.exclude\": {\n    \"**/.cursor\": false\n  }\n}\n"},
		{"tabs", "{\n\t\"a\": 1\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, path := newJSON(t, tt.original)
			if tt.original == "" {
				testutil.CreateDir(t, filepath.Dir(path), "")
			}

			_, err := e.Add("**/.cursor")
			require.NoError(t, err)
			_, err = e.Add("**/.idea")
			require.NoError(t, err)

			var doc map[string]interface{}
			content := testutil.ReadFile(t, path)
			require.NoError(t, json.Unmarshal([]byte(content), &doc), "not valid JSON:\n%s", content)

			exclude, ok := doc["files.exclude"].(map[string]interface{})
			require.True(t, ok, content)
			assert.Equal(t, true, exclude["**/.cursor"])
			assert.Equal(t, true, exclude["**/.idea"])
		})
	}
}

func TestJSONAddWithCommentsStaysParseable(t *testing.T) {
	for _, original := range []string{
		"{\n    // personal\n    \"editor.fontSize\": 14\n}\n",
		"{\n    \"a\": 1 // trailing\n}\n",
		"{\n    \"files.exclude\": {\n        \"**/.git\": true /* vcs */\n    }\n}\n",
		"{ /* nothing yet */ }\n",
	} {
		e, path := newJSON(t, original)

		_, err := e.Add("**/.cursor")
		require.NoError(t, err)

		content := testutil.ReadFile(t, path)
		v, err := hujson.Parse([]byte(content))
		require.NoError(t, err, "not valid JSONC:\n%s", content)
		v.Standardize()
		assert.True(t, json.Valid(v.Pack()), content)
	}
}

func TestJSONRemoveAbsentIsNoop(t *testing.T) {
	e, path := newJSON(t, "")
	changed, err := e.Remove("**/.cursor")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, testutil.PathExists(t, path))

	e, path = newJSON(t, "{\"files.exclude\": {\"**/.git\": true}}")
	changed, err = e.Remove("**/.cursor")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "{\"files.exclude\": {\"**/.git\": true}}", testutil.ReadFile(t, path))
}

func TestJSONRefusesNonObject(t *testing.T) {
	for _, content := range []string{"[1, 2]", "\"text\"", "{not json"} {
		e, path := newJSON(t, content)

		_, err := e.Add("**/.cursor")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
		assert.Equal(t, content, testutil.ReadFile(t, path))
	}
}

func TestEscapePath(t *testing.T) {
	assert.Equal(t, `files\.exclude`, escapePath("files.exclude"))
	assert.Equal(t, `\*\*\/\.cursor`, escapePath("**/.cursor"))
	assert.Equal(t, `node_modules`, escapePath("node_modules"))
}

func TestJSONTrailingCommentsSurviveRoundTrip(t *testing.T) {
	for _, original := range []string{
		"{\n    \"files.exclude\": {\n        \"**/.git\": true /* vcs */\n    }\n}\n",
		"{\n    \"files.exclude\": {\n        \"**/.git\": true // vcs\n    }\n}\n",
	} {
		e, path := newJSON(t, original)

		_, err := e.Add("**/.cursor")
		require.NoError(t, err)
		has, err := e.Has("**/.cursor")
		require.NoError(t, err)
		assert.True(t, has, "file must stay parseable: %s", testutil.ReadFile(t, path))

		_, err = e.Remove("**/.cursor")
		require.NoError(t, err)
		assert.Equal(t, original, testutil.ReadFile(t, path))
	}
}
