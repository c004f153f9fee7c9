package store

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ytget/image-saver/internal/compress"
)

func encodedEntry(t *testing.T, url string) recordEntry {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, compress.EncodeJPEG(&buf, blocks(16, 16), 100))
	return recordEntry{URL: url, Image: buf.Bytes(), SavedAt: time.Unix(1700000000, 0).UTC()}
}

func TestRecordStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewRecordStore(dir, newEncoder())
	ctx := context.Background()

	img := blocks(40, 24)
	saved, err := s.Save(ctx, newRecord("https://example.com/a.jpg", img))
	require.NoError(t, err)
	require.Empty(t, saved.Path)
	require.NotEmpty(t, saved.ID)

	_, err = s.Save(ctx, newRecord("https://example.com/b.jpg", blocks(8, 8)))
	require.NoError(t, err)

	require.Equal(t, filepath.Join(dir, RecordFileName), s.Path())

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "https://example.com/a.jpg", loaded[0].SourceURL)
	require.Equal(t, "https://example.com/b.jpg", loaded[1].SourceURL)
	require.Equal(t, saved.ID, loaded[0].ID)
	requireSimilar(t, img, loaded[0].Image)
}

func TestRecordStore_MissingFile(t *testing.T) {
	loaded, err := NewRecordStore(t.TempDir(), newEncoder()).LoadAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Empty(t, loaded)
}

// Older builds appended objects with no delimiter and read the file back as
// a single array. That read fails as soon as a second record exists.
func TestRecordStore_ConcatenatedObjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RecordFileName)

	var data []byte
	for _, url := range []string{"https://example.com/1.jpg", "https://example.com/2.jpg"} {
		b, err := json.Marshal(encodedEntry(t, url))
		require.NoError(t, err)
		data = append(data, b...)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := DecodeLegacyArray(data)
	require.Error(t, err)

	loaded, err := NewRecordStore(dir, newEncoder()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, "https://example.com/2.jpg", loaded[1].SourceURL)
}

func TestRecordStore_SingleObjectLegacyParse(t *testing.T) {
	b, err := json.Marshal([]recordEntry{encodedEntry(t, "https://example.com/only.jpg")})
	require.NoError(t, err)

	records, err := DecodeLegacyArray(b)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 16, records[0].Width)
}

func TestRecordStore_ArrayFileLoads(t *testing.T) {
	dir := t.TempDir()
	b, err := json.Marshal([]recordEntry{
		encodedEntry(t, "https://example.com/1.jpg"),
		encodedEntry(t, "https://example.com/2.jpg"),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFileName), b, 0o644))

	loaded, err := NewRecordStore(dir, newEncoder()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 2)
}

func TestRecordStore_CorruptTailKeepsEarlierRecords(t *testing.T) {
	dir := t.TempDir()
	s := NewRecordStore(dir, newEncoder())
	ctx := context.Background()

	_, err := s.Save(ctx, newRecord("https://example.com/ok.jpg", blocks(8, 8)))
	require.NoError(t, err)

	f, err := os.OpenFile(s.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"url":"https://example.com/half`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	loaded, err := s.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

func TestRecordStore_SkipsRecordWithoutImage(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"url":"https://example.com/empty.jpg","image":null}` + "\n")
	b, err := json.Marshal(encodedEntry(t, "https://example.com/ok.jpg"))
	require.NoError(t, err)
	data = append(data, b...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, RecordFileName), data, 0o644))

	loaded, err := NewRecordStore(dir, newEncoder()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "https://example.com/ok.jpg", loaded[0].SourceURL)
}
