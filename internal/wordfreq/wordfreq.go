// Package wordfreq downloads the wordfreq wheel and extracts scored word
// entries used to build the game dataset.
package wordfreq

import (
	"archive/zip"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const pypiEndpoint = "https://pypi.org/pypi/wordfreq/json"

// Wheel describes a cached wordfreq wheel.
type Wheel struct {
	Version  string
	Path     string
	Filename string
	Cached   bool
}

// Entry is a single dictionary word with its corpus frequency.
type Entry struct {
	Word      string
	Frequency float64
}

type pypiResponse struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	URLs []pypiFile `json:"urls"`
}

type pypiFile struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	Packagetype string `json:"packagetype"`
}

// DownloadLatestWheel fetches the latest wordfreq wheel into cacheDir,
// reusing a previously downloaded copy when present.
func DownloadLatestWheel(ctx context.Context, cacheDir string) (Wheel, error) {
	if cacheDir == "" {
		return Wheel{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Wheel{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	resp, err := httpRequest(ctx, pypiEndpoint)
	if err != nil {
		return Wheel{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Wheel{}, fmt.Errorf("unexpected pypi status: %s", resp.Status)
	}

	var payload pypiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Wheel{}, fmt.Errorf("failed to decode pypi response: %w", err)
	}
	if payload.Info.Version == "" {
		return Wheel{}, fmt.Errorf("missing version in pypi response")
	}

	url, filename := pickWheelFile(payload.URLs)
	if url == "" || filename == "" {
		return Wheel{}, fmt.Errorf("no suitable wordfreq wheel found")
	}

	destPath := filepath.Join(cacheDir, filename)
	if _, err := os.Stat(destPath); err == nil {
		return Wheel{Version: payload.Info.Version, Path: destPath, Filename: filename, Cached: true}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Wheel{}, fmt.Errorf("failed to stat cached wheel: %w", err)
	}

	if err := downloadTo(ctx, url, cacheDir, destPath); err != nil {
		return Wheel{}, err
	}
	return Wheel{Version: payload.Info.Version, Path: destPath, Filename: filename, Cached: false}, nil
}

func downloadTo(ctx context.Context, url, dir, destPath string) error {
	tmpFile, err := os.CreateTemp(dir, "wordfreq-*.whl")
	if err != nil {
		return fmt.Errorf("failed to create temp wheel: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpRequest(ctx, url)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected wheel status: %s", resp.Status)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("failed to download wheel: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp wheel: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to move wheel into cache: %w", err)
	}
	return nil
}

// ExtractEntries reads the frequency bands for the given language and list
// type out of the wheel and returns entries ordered from most to least
// frequent, capped at limit.
func ExtractEntries(wheelPath, lang, listType string, limit int) ([]Entry, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	lang = strings.ToLower(lang)
	if lang == "" {
		return nil, fmt.Errorf("language is required")
	}
	if listType == "" {
		return nil, fmt.Errorf("word list type is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	raw, err := readBandEntries(wheelPath, lang, listType)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Frequency > raw[j].Frequency
	})

	keep := keepWordFunc(lang)
	entries := make([]Entry, 0, limit)
	seen := make(map[string]struct{})
	for _, entry := range raw {
		if _, ok := seen[entry.Word]; ok {
			continue
		}
		if !keep(entry.Word) {
			continue
		}
		seen[entry.Word] = struct{}{}
		entries = append(entries, entry)
		if len(entries) >= limit {
			break
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no words found for %s/%s", lang, listType)
	}
	return entries, nil
}

// keepWordFunc returns the per-language word filter used during extraction.
// English word lists are restricted to ASCII lowercase so every word can be
// matched against plate letters byte by byte.
func keepWordFunc(lang string) func(string) bool {
	if lang == "en" {
		return func(word string) bool {
			if len(word) < 2 || len(word) > 20 {
				return false
			}
			for i := 0; i < len(word); i++ {
				if word[i] < 'a' || word[i] > 'z' {
					return false
				}
			}
			return true
		}
	}
	return func(word string) bool {
		length := utf8.RuneCountInString(word)
		return length >= 2 && length <= 20
	}
}

func readBandEntries(wheelPath, lang, listType string) ([]Entry, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	dataFile := selectDataFile(reader.File, lang, listType)
	if dataFile == nil {
		return nil, fmt.Errorf("no data file found for %s/%s", lang, listType)
	}

	rc, err := dataFile.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	var src io.Reader = rc
	if strings.HasSuffix(dataFile.Name, ".gz") {
		gz, err := gzip.NewReader(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer func() {
			_ = gz.Close()
		}()
		src = gz
	}

	payload, err := decodeMsgpack(src)
	if err != nil {
		return nil, err
	}
	entries, err := entriesFromBands(payload)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("wordfreq data contained no entries")
	}
	return entries, nil
}

// entriesFromBands flattens the wordfreq band layout into word entries.
// Bands appear either as [score, [words...]] pairs or as bare word lists
// whose position encodes the band; the leading header row is skipped.
func entriesFromBands(payload interface{}) ([]Entry, error) {
	bands, ok := payload.([]interface{})
	if !ok {
		return nil, fmt.Errorf("unsupported msgpack root type %T", payload)
	}

	var entries []Entry
	for i, band := range bands {
		if score, words, ok := scoredBand(band); ok {
			freq := bandFrequency(score)
			for _, word := range words {
				entries = append(entries, Entry{Word: word, Frequency: freq})
			}
			continue
		}
		if words, ok := toStringSlice(band); ok {
			// Bare rows are centibel bands counted from the top of the
			// list; earlier rows hold the more frequent words.
			freq := math.Pow(10, -float64(i)/100)
			for _, word := range words {
				entries = append(entries, Entry{Word: word, Frequency: freq})
			}
			continue
		}
		if i == 0 {
			// Header row describing the file format.
			continue
		}
		return nil, fmt.Errorf("unsupported msgpack band entry %T", band)
	}
	return entries, nil
}

func scoredBand(band interface{}) (float64, []string, bool) {
	pair, ok := band.([]interface{})
	if !ok || len(pair) != 2 {
		return 0, nil, false
	}
	score, ok := toFloat64(pair[0])
	if !ok {
		return 0, nil, false
	}
	words, ok := toStringSlice(pair[1])
	if !ok {
		return 0, nil, false
	}
	return score, words, true
}

// bandFrequency converts a band score to a corpus frequency. Positive
// scores are zipf values (log10 frequency per billion words); non-positive
// scores are centibel offsets.
func bandFrequency(score float64) float64 {
	if score > 0 {
		return math.Pow(10, score-9)
	}
	return math.Pow(10, score/100)
}

func httpRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func pickWheelFile(files []pypiFile) (string, string) {
	for _, f := range files {
		if f.Packagetype != "bdist_wheel" {
			continue
		}
		if strings.HasSuffix(f.Filename, "py3-none-any.whl") {
			return f.URL, f.Filename
		}
	}
	for _, f := range files {
		if f.Packagetype == "bdist_wheel" {
			return f.URL, f.Filename
		}
	}
	return "", ""
}

func selectDataFile(files []*zip.File, lang, listType string) *zip.File {
	listType = strings.ToLower(listType)
	exact := []string{
		fmt.Sprintf("wordfreq/data/%s_%s.msgpack", listType, lang),
		fmt.Sprintf("wordfreq/data/%s_%s.msgpack.gz", listType, lang),
	}
	for _, file := range files {
		lower := strings.ToLower(file.Name)
		for _, want := range exact {
			if lower == want {
				return file
			}
		}
	}
	// Older wheels name the files wordfreq-<lang>-<type>.msgpack.
	legacy := []string{
		fmt.Sprintf("wordfreq/data/wordfreq-%s-%s.msgpack", lang, listType),
		fmt.Sprintf("wordfreq/data/wordfreq-%s-%s.msgpack.gz", lang, listType),
	}
	for _, file := range files {
		lower := strings.ToLower(file.Name)
		for _, want := range legacy {
			if lower == want {
				return file
			}
		}
	}
	return nil
}

// AvailableLanguages returns the sorted language codes present in the wheel.
func AvailableLanguages(wheelPath string) ([]string, error) {
	if wheelPath == "" {
		return nil, fmt.Errorf("wheel path is required")
	}
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	seen := make(map[string]struct{})
	for _, file := range reader.File {
		lang, listType := parseLanguageAndType(file.Name)
		if lang == "" || listType == "" {
			continue
		}
		seen[lang] = struct{}{}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("no languages found in wordfreq wheel")
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func parseLanguageAndType(name string) (string, string) {
	name = strings.ToLower(name)
	if !strings.HasPrefix(name, "wordfreq/data/") {
		return "", ""
	}
	base := strings.TrimPrefix(name, "wordfreq/data/")
	base = strings.TrimSuffix(base, ".gz")
	if !strings.HasSuffix(base, ".msgpack") {
		return "", ""
	}
	base = strings.TrimSuffix(base, ".msgpack")
	if strings.HasPrefix(base, "large_") {
		return strings.TrimPrefix(base, "large_"), "large"
	}
	if strings.HasPrefix(base, "small_") {
		return strings.TrimPrefix(base, "small_"), "small"
	}
	if strings.HasPrefix(base, "wordfreq-") {
		base = strings.TrimPrefix(base, "wordfreq-")
		if strings.HasSuffix(base, "-large") {
			return strings.TrimSuffix(base, "-large"), "large"
		}
		if strings.HasSuffix(base, "-small") {
			return strings.TrimSuffix(base, "-small"), "small"
		}
	}
	return "", ""
}

// WriteAttribution writes attribution and license files alongside a built
// dataset.
func WriteAttribution(wheelPath, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	attrPath := filepath.Join(outDir, "ATTRIBUTION.txt")
	attrText := strings.Join([]string{
		"Game dataset generated from the wordfreq dataset.",
		"Source: https://github.com/rspeer/wordfreq",
		"Data license: Creative Commons Attribution-ShareAlike 4.0 International (CC BY-SA 4.0).",
		"This dataset is licensed CC BY-SA 4.0: https://creativecommons.org/licenses/by-sa/4.0/",
		"Changes were made: filtered to alphabetic words, truncated, and regrouped by letter plate.",
		"Includes data from Google Books Ngrams (acknowledgement requested by wordfreq): https://books.google.com/ngrams",
		"Includes data from the Leeds Internet Corpus: https://corpus.leeds.ac.uk/",
		"For other upstream sources, see the wordfreq project documentation.",
		"Please attribute wordfreq when redistributing derived datasets.",
		"",
	}, "\n")
	if err := os.WriteFile(attrPath, []byte(attrText), 0o644); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}

	licenseText, err := readWheelLicense(wheelPath)
	if err != nil {
		return err
	}
	licensePath := filepath.Join(outDir, "LICENSE.txt")
	if err := os.WriteFile(licensePath, licenseText, 0o644); err != nil {
		return fmt.Errorf("failed to write license: %w", err)
	}
	return nil
}

func readWheelLicense(wheelPath string) ([]byte, error) {
	reader, err := zip.OpenReader(wheelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open wheel for license: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	for _, file := range reader.File {
		name := strings.ToLower(file.Name)
		if !strings.Contains(name, "license") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open license: %w", err)
		}
		data, readErr := io.ReadAll(rc)
		_ = rc.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read license: %w", readErr)
		}
		return data, nil
	}
	return nil, fmt.Errorf("license file not found in wheel")
}
