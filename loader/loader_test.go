package loader

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const sampleDescription = `<vfs>
  <dir name="/">
    <dir name="sub">
      <file name="text.txt" encoding="utf-8">Sample text</file>
      <file name="bin.dat" encoding="base64">QkFTRTY0</file>
    </dir>
    <file name="root.txt">Root text</file>
  </dir>
</vfs>`

func fileData(t *testing.T, root *filesystem.Directory, p string) []byte {
	t.Helper()
	node, err := filesystem.Resolve(root, nil, p)
	require.NoError(t, err)
	f, ok := node.(*filesystem.File)
	require.True(t, ok, "%s is not a file", p)
	return f.Bytes()
}

func TestLoad_SampleDescription(t *testing.T) {
	t.Parallel()

	root, err := Load(strings.NewReader(sampleDescription))

	require.NoError(t, err)
	assert.Equal(t, filesystem.RootName, root.Name())
	assert.Equal(t, []string{"root.txt", "sub"}, root.Names())
	assert.Equal(t, []byte("Sample text"), fileData(t, root, "/sub/text.txt"))
	assert.Equal(t, []byte("BASE64"), fileData(t, root, "/sub/bin.dat"))
	assert.Equal(t, []byte("Root text"), fileData(t, root, "/root.txt"))
	assert.Equal(t, filesystem.Stats{Dirs: 2, Files: 3, MaxDepth: 1}, filesystem.CountTree(root))
}

func TestLoad_TopLevelWithoutRootDir(t *testing.T) {
	t.Parallel()

	root, err := Load(strings.NewReader(`<vfs><file name="a">x</file><dir name="d"/></vfs>`))

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "d"}, root.Names())
}

func TestLoad_OnlyFirstRootDirIsUsed(t *testing.T) {
	t.Parallel()

	doc := `<vfs>
	<file name="ignored">x</file>
	<dir name="/"><file name="first">1</file></dir>
	<dir name="/"><file name="second">2</file></dir>
</vfs>`
	root, err := Load(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, root.Names())
}

func TestLoad_CaseInsensitiveTags(t *testing.T) {
	t.Parallel()

	doc := `<VFS><Directory name="d"><FILE name="f" encoding="BASE64">aGk=</FILE></Directory></VFS>`
	root, err := Load(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), fileData(t, root, "/d/f"))
}

func TestLoad_UnknownElementsIgnored(t *testing.T) {
	t.Parallel()

	doc := `<vfs><meta author="x"/><dir name="d"><link name="l"/><file name="f"/></dir></vfs>`
	root, err := Load(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, root.Names())
	assert.Empty(t, fileData(t, root, "/d/f"))
}

func TestLoad_Base64WithWhitespace(t *testing.T) {
	t.Parallel()

	doc := "<vfs><file name=\"b\" encoding=\"base64\">\n  QkFT\n  RTY0\n</file></vfs>"
	root, err := Load(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, []byte("BASE64"), fileData(t, root, "/b"))
}

func TestLoad_NamedCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec string
		text  string
		want  []byte
	}{
		{"windows-1251", "Привет", []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}},
		{"cp1251", "Привет", []byte{0xCF, 0xF0, 0xE8, 0xE2, 0xE5, 0xF2}},
		{"ascii", "plain", []byte("plain")},
		{"US-ASCII", "plain", []byte("plain")},
		{"latin-1", "é", []byte{0xE9}},
		{"iso-8859-1", "é", []byte{0xE9}},
		{"utf-16", "é", []byte{0xFF, 0xFE, 0xE9, 0x00}},
		{"utf-16-be", "é", []byte{0x00, 0xE9}},
		{"UTF_8", "é", []byte{0xC3, 0xA9}},
	}
	for _, tt := range tests {
		t.Run(tt.codec, func(t *testing.T) {
			t.Parallel()

			doc := `<vfs><file name="f" encoding="` + tt.codec + `">` + tt.text + `</file></vfs>`
			root, err := Load(strings.NewReader(doc))

			require.NoError(t, err)
			assert.Equal(t, tt.want, fileData(t, root, "/f"))
		})
	}
}

func TestLoad_Base64SkipsForeignCharacters(t *testing.T) {
	t.Parallel()

	doc := `<vfs><file name="b" encoding="base64">QkFT!RTY0</file></vfs>`
	root, err := Load(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, []byte("BASE64"), fileData(t, root, "/b"))
}

func TestLoad_DocumentCharsetDeclaration(t *testing.T) {
	t.Parallel()

	body, err := charmap.Windows1251.NewEncoder().String(`<vfs><file name="файл">текст</file></vfs>`)
	require.NoError(t, err)
	doc := `<?xml version="1.0" encoding="windows-1251"?>` + body

	root, err := Load(strings.NewReader(doc))

	require.NoError(t, err)
	assert.Equal(t, []byte("текст"), fileData(t, root, "/файл"))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "dir without name",
			doc:     `<vfs><dir><file name="a"/></dir></vfs>`,
			wantErr: ErrMissingName,
			wantMsg: "<dir> in /",
		},
		{
			name:    "file without name",
			doc:     `<vfs><dir name="d"><file>x</file></dir></vfs>`,
			wantErr: ErrMissingName,
			wantMsg: "<file> in /d",
		},
		{
			name:    "empty name",
			doc:     `<vfs><file name="">x</file></vfs>`,
			wantErr: ErrMissingName,
		},
		{
			name:    "bad base64",
			doc:     `<vfs><file name="b" encoding="base64">QkFTRTY</file></vfs>`,
			wantErr: ErrBadBase64,
			wantMsg: "file /b",
		},
		{
			name:    "unknown codec",
			doc:     `<vfs><file name="t" encoding="no-such-codec">x</file></vfs>`,
			wantErr: ErrBadEncoding,
			wantMsg: "no-such-codec",
		},
		{
			name:    "unencodable text",
			doc:     `<vfs><file name="t" encoding="iso-8859-1">Привет</file></vfs>`,
			wantErr: ErrBadEncoding,
		},
		{
			name:    "non-ascii text with ascii codec",
			doc:     `<vfs><file name="t" encoding="ascii">café</file></vfs>`,
			wantErr: ErrBadEncoding,
			wantMsg: "ascii",
		},
		{
			name:    "wrong container",
			doc:     `<tree><file name="a"/></tree>`,
			wantErr: ErrNoContainer,
			wantMsg: "<tree>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := Load(strings.NewReader(tt.doc))

			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, root, "a failed load must not return a partial tree")
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_MalformedMarkup(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"empty":            ``,
		"unclosed":         `<vfs><dir name="a">`,
		"mismatched":       `<vfs><dir name="a"></file></vfs>`,
		"junk after root":  `<vfs/><vfs/>`,
		"text after root":  `<vfs/>trailing`,
		"unquoted attrval": `<vfs><dir name=a/></vfs>`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			root, err := Load(strings.NewReader(doc))

			require.Error(t, err)
			assert.Nil(t, root)
			assert.Contains(t, err.Error(), "parse tree description")
		})
	}
}

func TestLoad_TrailingCommentAllowed(t *testing.T) {
	t.Parallel()

	_, err := Load(strings.NewReader("<vfs/>\n<!-- end -->\n"))

	assert.NoError(t, err)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("Existing file", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "vfs.xml")
		require.NoError(t, os.WriteFile(p, []byte(sampleDescription), 0o600))

		root, err := LoadFile(p)

		require.NoError(t, err)
		assert.Equal(t, 2, root.Len())
	})

	t.Run("Missing file", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), "missing.xml")

		_, err := LoadFile(p)

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadFile_Remote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vfs.xml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleDescription))
	}))
	t.Cleanup(srv.Close)

	root, err := LoadFile(srv.URL + "/vfs.xml")
	require.NoError(t, err)
	assert.Equal(t, []byte("Root text"), fileData(t, root, "/root.txt"))

	_, err = LoadFile(srv.URL + "/other.xml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
