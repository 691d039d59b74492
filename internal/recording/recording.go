// Package recording reads superwhisper-style recording directories from
// disk and groups them into conversations. Each recording lives in
// <root>/<unix-timestamp>/ with a meta.json and, usually, an audio file.
// Recordings that share the same audio are re-transcriptions of one
// conversation and are grouped by the audio's SHA-256.
package recording

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/debuglog"
)

// audioCandidates is the lookup order for a recording's audio file. Older
// superwhisper releases wrote different names and formats.
var audioCandidates = []string{
	"output.wav",
	"audio.wav",
	"output.mp3",
	"audio.mp3",
	"output.m4a",
	"audio.m4a",
}

const metaTimeLayout = "2006-01-02T15:04:05"

// Meta mirrors the meta.json a recording directory carries.
type Meta struct {
	RecordingID      string                 `json:"recordingId"`
	RawResult        string                 `json:"rawResult"`
	Result           string                 `json:"result"`
	LLMResult        string                 `json:"llmResult"`
	Segments         []conversation.Segment `json:"segments"`
	Duration         float64                `json:"duration"`
	LanguageSelected string                 `json:"languageSelected"`
	ModelName        string                 `json:"modelName"`
	ModeName         string                 `json:"modeName"`
	Datetime         string                 `json:"datetime"`
}

// Recording is one scanned recording directory.
type Recording struct {
	ID        string // directory name, a unix timestamp
	Dir       string
	Timestamp int64
	Meta      Meta
	AudioPath string // empty when the directory has no audio
	AudioHash string // empty when AudioPath is
}

// CreatedAt prefers the metadata's own clock over the directory name.
func (r Recording) CreatedAt() time.Time {
	if r.Meta.Datetime != "" {
		if t, err := time.ParseInLocation(metaTimeLayout, r.Meta.Datetime, time.Local); err == nil {
			return t
		}
	}
	return time.Unix(r.Timestamp, 0)
}

// Version projects the recording onto the wire model.
func (r Recording) Version() conversation.Version {
	return conversation.Version{
		VersionID:           r.ID,
		Timestamp:           r.Timestamp,
		RawTranscript:       r.Meta.RawResult,
		ProcessedTranscript: r.Meta.Result,
		LLMTranscript:       r.Meta.LLMResult,
		Segments:            r.Meta.Segments,
		Duration:            r.Meta.Duration,
		Language:            r.Meta.LanguageSelected,
		ModelName:           r.Meta.ModelName,
		ModeName:            r.Meta.ModeName,
		HasAudio:            r.AudioPath != "",
		CreatedAt:           r.CreatedAt(),
	}
}

// Scanner walks a recordings root. With a non-nil cache, unchanged audio
// files are not rehashed across scans.
type Scanner struct {
	root  string
	cache *HashCache
}

func NewScanner(root string, cache *HashCache) *Scanner {
	return &Scanner{root: root, cache: cache}
}

// Scan reads every recording directory under the root. Directories that
// are not recordings, or whose metadata cannot be read, are skipped with a
// log line rather than failing the whole scan.
func (s *Scanner) Scan() ([]Recording, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading recordings directory: %w", err)
	}

	var recs []Recording
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		ts, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil {
			continue
		}
		rec, err := s.readOne(entry.Name(), ts)
		if err != nil {
			debuglog.Warnf("Skipping recording %s: %v", entry.Name(), err)
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Scanner) readOne(name string, ts int64) (Recording, error) {
	dir := filepath.Join(s.root, name)
	rec := Recording{ID: name, Dir: dir, Timestamp: ts}

	meta, err := readMeta(dir)
	if err != nil {
		return rec, err
	}
	rec.Meta = meta

	for _, candidate := range audioCandidates {
		p := filepath.Join(dir, candidate)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			rec.AudioPath = p
			rec.AudioHash, err = s.hashAudio(rec.ID, p, info)
			if err != nil {
				debuglog.Warnf("Hashing audio for %s: %v", name, err)
				rec.AudioHash = ""
			}
			break
		}
	}
	return rec, nil
}

// readMeta parses meta.json, falling back to the legacy metadata.json name.
func readMeta(dir string) (Meta, error) {
	var meta Meta
	var lastErr error
	for _, name := range []string{"meta.json", "metadata.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			lastErr = err
			continue
		}
		if err := json.Unmarshal(data, &meta); err != nil {
			return meta, fmt.Errorf("parsing %s: %w", name, err)
		}
		return meta, nil
	}
	return meta, fmt.Errorf("no metadata file: %w", lastErr)
}

func (s *Scanner) hashAudio(id, path string, info os.FileInfo) (string, error) {
	if s.cache != nil {
		if hash, ok := s.cache.Lookup(id, info.Size(), info.ModTime().Unix()); ok {
			return hash, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	hash := hex.EncodeToString(h.Sum(nil))

	if s.cache != nil {
		if err := s.cache.Save(id, hash, info.Size(), info.ModTime().Unix()); err != nil {
			debuglog.Warnf("Caching audio hash for %s: %v", id, err)
		}
	}
	return hash, nil
}
