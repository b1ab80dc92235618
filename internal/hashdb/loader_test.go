package hashdb

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/IvanShishkin/hashhound/pkg/models"
)

const (
	helloSHA256 = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	helloSHA1   = "aaf4c61ddcc5e8a2dabede0f3b482cd9aea9434d"
	helloMD5    = "5d41402abc4b2a76b9719d911017c592"
	emptyMD5    = "d41d8cd98f00b204e9800998ecf8427e"
)

func testLoader() *Loader {
	logger, _ := zap.NewDevelopment()
	return NewLoader(logger)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadText(t *testing.T) {
	content := strings.Join([]string{
		"# victim hashes",
		"",
		strings.ToUpper(helloSHA256),
		helloSHA1 + "  hello.txt",
		"  " + helloMD5 + "  ",
		helloMD5,
	}, "\n")
	path := writeFile(t, "known.txt", []byte(content))

	set, err := testLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(helloSHA256))
	assert.True(t, set.Contains(helloSHA1))
	assert.True(t, set.Contains(helloMD5))
	assert.Equal(t, 1, set.CountByAlgorithm(models.AlgorithmMD5))
}

func TestLoadTextInvalidLine(t *testing.T) {
	path := writeFile(t, "known.txt", []byte(helloMD5+"\nnot-a-hash\n"))

	_, err := testLoader().Load(path)
	require.ErrorIs(t, err, ErrInvalidHash)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadCSV(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"header selects column", "filename,hash_value\nhello.txt," + helloSHA256 + "\nempty," + emptyMD5 + "\n"},
		{"unknown header", "value,note\n" + helloSHA256 + ",x\n" + emptyMD5 + ",y\n"},
		{"no header", helloSHA256 + ",hello\n" + emptyMD5 + ",empty\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "known.csv", []byte(tt.content))

			set, err := testLoader().Load(path)
			require.NoError(t, err)
			assert.Equal(t, 2, set.Len())
			assert.True(t, set.Contains(helloSHA256))
			assert.True(t, set.Contains(emptyMD5))
		})
	}
}

func TestLoadYAML(t *testing.T) {
	content := "hashes:\n  - " + helloSHA256 + "\n  - sha1:" + helloSHA1 + "\n  - md5:" + strings.ToUpper(helloMD5) + "\n"
	path := writeFile(t, "known.yaml", []byte(content))

	set, err := testLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains(helloMD5))
}

func TestLoadCompressed(t *testing.T) {
	plain := []byte(helloSHA256 + "\n" + emptyMD5 + "\n")

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	require.NoError(t, err)
	_, err = zw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	for name, data := range map[string][]byte{"known.txt.gz": gz.Bytes(), "known.txt.zst": zs.Bytes()} {
		t.Run(name, func(t *testing.T) {
			set, err := testLoader().Load(writeFile(t, name, data))
			require.NoError(t, err)
			assert.Equal(t, 2, set.Len())
			assert.True(t, set.Contains(emptyMD5))
		})
	}
}

func writeSQLite(t *testing.T, path string, values ...any) {
	t.Helper()
	dsn, err := sqliteDSN(path, "mode=rwc")
	require.NoError(t, err)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE VIC_HASHES (id INTEGER PRIMARY KEY, hash_value TEXT)")
	require.NoError(t, err)
	for _, h := range values {
		_, err = db.Exec("INSERT INTO VIC_HASHES (hash_value) VALUES (?)", h)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hashes.db")
	writeSQLite(t, path, helloSHA256, strings.ToUpper(helloMD5), nil)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	set, err := testLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(helloMD5))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadSQLiteSpecialCharactersInPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "case #12?a=b")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "vic hashes.sqlite")
	writeSQLite(t, path, helloSHA256)

	set, err := testLoader().Load(path)
	require.NoError(t, err)
	assert.True(t, set.Contains(helloSHA256))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "vic hashes.sqlite", entries[0].Name())
}

func TestSQLiteDSN(t *testing.T) {
	dsn, err := sqliteDSN("/evidence/case #1/db?.sqlite", "mode=ro")
	require.NoError(t, err)
	assert.Equal(t, "file:///evidence/case%20%231/db%3F.sqlite?mode=ro", dsn)
}

func TestLoadSQLiteMissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE other (x TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = testLoader().Load(path)
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := testLoader().Load(filepath.Join(t.TempDir(), "missing.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := testLoader().Load(writeFile(t, "known.json", []byte("{}")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("compressed sqlite", func(t *testing.T) {
		_, err := testLoader().Load(writeFile(t, "known.db.gz", []byte("x")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "hashes.txt")
		require.NoError(t, os.Mkdir(dir, 0o755))
		_, err := testLoader().Load(dir)
		assert.Error(t, err)
	})
}

func TestParseHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"md5", helloMD5, helloMD5, false},
		{"sha1 uppercase", strings.ToUpper(helloSHA1), helloSHA1, false},
		{"sha256 padded", "  " + helloSHA256 + "\t", helloSHA256, false},
		{"sha256 prefix", "sha256:" + helloSHA256, helloSHA256, false},
		{"sha1 prefix", "SHA1:" + helloSHA1, helloSHA1, false},
		{"md5 prefix", "md5:" + helloMD5, helloMD5, false},
		{"prefix length mismatch", "md5:" + helloSHA1, "", true},
		{"sha256 prefix too short", "sha256:" + helloMD5, "", true},
		{"unknown prefix", "sha512:" + helloSHA256, "", true},
		{"wrong length", helloMD5[:31], "", true},
		{"not hex", strings.Repeat("z", 32), "", true},
		{"empty", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHash(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidHash)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
