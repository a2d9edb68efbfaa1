package journal

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

func TestRecordReaderBasic(t *testing.T) {
	input := `{"user":{"id":1,"login":"alice","createdAt":"2020-01-01T00:00:00Z","updatedAt":"2020-01-01T00:00:00Z"},"keys":["ssh-rsa AAAA"]}
{"user":{"id":2,"login":"bob","createdAt":"2020-01-01T00:00:00Z","updatedAt":"2020-01-01T00:00:00Z"},"keys":[]}
`
	rr := NewRecordReader(strings.NewReader(input))

	rec, err := rr.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.User.ID)
	assert.Equal(t, "alice", rec.User.Login)

	rec, err = rr.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.User.ID)

	_, err = rr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRecordReaderSkipsEmptyLines(t *testing.T) {
	input := "\n\n{\"user\":{\"id\":1,\"login\":\"a\",\"createdAt\":\"x\",\"updatedAt\":\"y\"},\"keys\":[]}\n\n"
	rr := NewRecordReader(strings.NewReader(input))

	rec, err := rr.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.User.ID)

	_, err = rr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRecordReaderTrailingPartialLine(t *testing.T) {
	input := `{"user":{"id":1,"login":"a","createdAt":"x","updatedAt":"y"},"keys":[]}`
	rr := NewRecordReader(strings.NewReader(input))

	rec, err := rr.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.User.ID)

	_, err = rr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRecordReaderCorruptRecordIsFatal(t *testing.T) {
	rr := NewRecordReader(strings.NewReader("not json\n"))
	_, err := rr.Next()
	assert.Error(t, err)
}

func TestRecordValidateRequiresUserID(t *testing.T) {
	rec := Record{}
	assert.Error(t, rec.Validate())
}

func TestDiscoverFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"keys-0002.json", "keys-0001.json", "keys-0003.json.xz", "notes.txt", "keys-abcd.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	refs, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "keys-0001.json", refs[0].Name)
	assert.Equal(t, "keys-0002.json", refs[1].Name)
	assert.Equal(t, "keys-0003.json.xz", refs[2].Name)
	assert.True(t, refs[2].Compressed)
}

func TestDiscoverMissingDirIsFatal(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestChunkRefOpenDecompressesXZ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys-0001.json.xz")

	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := xz.NewWriter(f)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"user":{"id":1,"login":"a","createdAt":"x","updatedAt":"y"},"keys":[]}` + "\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	refs, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, refs, 1)

	rc, err := refs[0].Open()
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"login":"a"`)
}

func TestStreamConcatenatesChunks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keys-0001.json"),
		[]byte(`{"user":{"id":1,"login":"a","createdAt":"x","updatedAt":"y"},"keys":[]}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keys-0002.json"),
		[]byte(`{"user":{"id":2,"login":"b","createdAt":"x","updatedAt":"y"},"keys":[]}`+"\n"), 0o644))

	refs, err := Discover(dir)
	require.NoError(t, err)

	s := NewStream(refs)
	defer s.Close()

	var ids []int64
	for {
		rec, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		ids = append(ids, rec.User.ID)
	}
	assert.Equal(t, []int64{1, 2}, ids)
}
