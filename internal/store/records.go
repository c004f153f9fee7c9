package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ytget/image-saver/internal/compress"
	"github.com/ytget/image-saver/internal/model"
)

// RecordFileName is the flat file holding serialized records
const RecordFileName = "images.json"

// recordEntry is the on-disk shape of one record. Image is the encoded
// JPEG; encoding/json stores it as base64.
type recordEntry struct {
	ID      string    `json:"id,omitempty"`
	URL     string    `json:"url"`
	Format  string    `json:"format,omitempty"`
	Width   int       `json:"width,omitempty"`
	Height  int       `json:"height,omitempty"`
	Image   []byte    `json:"image"`
	SavedAt time.Time `json:"saved_at"`
}

// RecordStore appends records to a single file, one JSON object per line
type RecordStore struct {
	path    string
	encoder compress.Compressor
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewRecordStore creates a record store writing dir/images.json
func NewRecordStore(dir string, encoder compress.Compressor, opts ...Option) *RecordStore {
	o := buildOptions(opts)
	return &RecordStore{
		path:    filepath.Join(dir, RecordFileName),
		encoder: encoder,
		logger:  o.logger,
		now:     o.now,
	}
}

// Path returns the record file location
func (s *RecordStore) Path() string {
	return s.path
}

// Save serializes rec with its source URL and appends it to the file
func (s *RecordStore) Save(ctx context.Context, rec *model.ImageRecord) (*model.ImageRecord, error) {
	if rec == nil || rec.Image == nil {
		return nil, ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := s.encoder.Prepare(rec.Image)
	var buf bytes.Buffer
	if err := s.encoder.Encode(&buf, prepared); err != nil {
		return nil, goerr.Wrap(err, "failed to encode record image", goerr.V("url", rec.SourceURL))
	}

	out := *rec
	out.SetImage(prepared)
	out.ID = newRecordID()
	out.Format = "jpeg"
	out.Size = int64(buf.Len())
	out.SavedAt = s.now()
	out.Path = ""

	line, err := json.Marshal(toEntry(&out, buf.Bytes()))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal record", goerr.V("url", rec.SourceURL))
	}
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), DefaultDirPermissions); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("path", s.path))
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, DefaultFilePermissions)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open record file", goerr.V("path", s.path))
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return nil, goerr.Wrap(err, "failed to append record", goerr.V("path", s.path))
	}
	if err := f.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to close record file", goerr.V("path", s.path))
	}

	return &out, nil
}

// LoadAll reads every record in file order. A missing file yields an empty
// list; a corrupt tail or an undecodable image is logged and skipped.
func (s *RecordStore) LoadAll(ctx context.Context) ([]*model.ImageRecord, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*model.ImageRecord{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read record file", goerr.V("path", s.path))
	}

	entries, err := decodeEntries(bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("record file has a corrupt tail", "path", s.path, "parsed", len(entries), "error", err)
	}

	records := make([]*model.ImageRecord, 0, len(entries))
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := entry.toRecord()
		if err != nil {
			s.logger.Warn("skipping unreadable record", "path", s.path, "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// decodeEntries accepts newline-delimited objects, objects concatenated with
// no delimiter at all, and top-level arrays of objects, in any mix. Entries
// decoded before a syntax error are returned along with the error.
func decodeEntries(r io.Reader) ([]recordEntry, error) {
	dec := json.NewDecoder(bufio.NewReader(r))

	var entries []recordEntry
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return entries, nil
			}
			return entries, goerr.Wrap(err, "failed to decode record stream", goerr.V("offset", dec.InputOffset()))
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var batch []recordEntry
			if err := json.Unmarshal(trimmed, &batch); err != nil {
				return entries, goerr.Wrap(err, "failed to decode record array")
			}
			entries = append(entries, batch...)
			continue
		}

		var entry recordEntry
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			return entries, goerr.Wrap(err, "failed to decode record")
		}
		entries = append(entries, entry)
	}
}

// DecodeLegacyArray parses data as one JSON array of records, the layout
// older builds expected to read back. It fails on files holding more than one
// concatenated object, which is why LoadAll does not use it.
func DecodeLegacyArray(data []byte) ([]*model.ImageRecord, error) {
	var entries []recordEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, goerr.Wrap(err, "record file is not a single JSON array")
	}

	records := make([]*model.ImageRecord, 0, len(entries))
	for _, entry := range entries {
		rec, err := entry.toRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func toEntry(rec *model.ImageRecord, encoded []byte) recordEntry {
	return recordEntry{
		ID:      rec.ID,
		URL:     rec.SourceURL,
		Format:  rec.Format,
		Width:   rec.Width,
		Height:  rec.Height,
		Image:   encoded,
		SavedAt: rec.SavedAt,
	}
}

func (e recordEntry) toRecord() (*model.ImageRecord, error) {
	if len(e.Image) == 0 {
		return nil, goerr.New("record has no image data", goerr.V("id", e.ID), goerr.V("url", e.URL))
	}

	img, format, err := image.Decode(bytes.NewReader(e.Image))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode record image", goerr.V("id", e.ID), goerr.V("url", e.URL))
	}

	rec := &model.ImageRecord{
		ID:        e.ID,
		SourceURL: e.URL,
		Format:    format,
		Size:      int64(len(e.Image)),
		SavedAt:   e.SavedAt,
	}
	rec.SetImage(img)
	return rec, nil
}

// newRecordID returns a time-ordered UUIDv7, falling back to a timestamp
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "record-" + time.Now().Format("20060102150405.000000000")
	}
	return id.String()
}
