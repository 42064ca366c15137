package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/apperr"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/config"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/dataset"
	"github.com/ChuckBuilds/ledmatrix-of-the-day/internal/ofday"
)

// templateDays is how many empty day slots a freshly created calendar gets.
const templateDays = 365

// maxUploadBytes bounds calendar uploads; a year of text fits comfortably.
const maxUploadBytes = 8 << 20

var categoryNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Handler serves the management API.
type Handler struct {
	eng      *ofday.Engine
	store    *dataset.Store
	resolver *dataset.Resolver
	log      *slog.Logger
}

// NewHandler creates a handler over the engine and its dataset store.
func NewHandler(eng *ofday.Engine, store *dataset.Store, resolver *dataset.Resolver, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{eng: eng, store: store, resolver: resolver, log: log}
}

// GetStatus reports the engine status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.Status())
}

type fileInfo struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Entries  int    `json:"entries"`
	Filled   int    `json:"filled"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// ListFiles lists the calendar files with entry counts and metadata.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	dirents, err := os.ReadDir(h.store.Dir())
	if err != nil {
		writeError(w, fmt.Errorf("read data dir: %w", err))
		return
	}

	files := []fileInfo{}
	for _, de := range dirents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info := fileInfo{
			Filename: name,
			Category: strings.TrimSuffix(name, ".json"),
		}
		if fi, statErr := de.Info(); statErr == nil {
			info.Size = fi.Size()
			info.Modified = fi.ModTime().UTC().Format(time.RFC3339)
		}
		if d, loadErr := dataset.Load(filepath.Join(h.store.Dir(), name)); loadErr == nil {
			info.Entries = len(d)
			for _, e := range d {
				if !e.IsZero() {
					info.Filled++
				}
			}
		}
		files = append(files, info)
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}

// GetFile returns one calendar file's contents.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	name, err := fileParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	data, err := os.ReadFile(filepath.Join(h.store.Dir(), name))
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, fmt.Errorf("file %s: %w", name, apperr.ErrNotFound))
			return
		}
		writeError(w, err)
		return
	}

	var payload json.RawMessage = data
	writeJSON(w, http.StatusOK, map[string]any{"filename": name, "data": payload})
}

type createRequest struct {
	CategoryName string `json:"category_name"`
	DisplayName  string `json:"display_name"`
}

// CreateFile creates a calendar with an empty slot for every day and
// registers its category in the configuration.
func (h *Handler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: bad json: %v", apperr.ErrInvalid, err))
		return
	}
	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		writeError(w, fmt.Errorf("%w: category name is required", apperr.ErrInvalid))
		return
	}
	if !categoryNameRe.MatchString(name) {
		writeError(w, fmt.Errorf("%w: category name must contain only letters, numbers, and underscores", apperr.ErrInvalid))
		return
	}

	filename := name + ".json"
	path := filepath.Join(h.store.Dir(), filename)
	if _, err := os.Stat(path); err == nil {
		writeError(w, fmt.Errorf("file %s: %w", filename, apperr.ErrAlreadyExists))
		return
	}

	template := make(map[string]dataset.Entry, templateDays)
	for day := 1; day <= templateDays; day++ {
		template[strconv.Itoa(day)] = dataset.Entry{}
	}
	if err := writeJSONFile(path, template); err != nil {
		writeError(w, err)
		return
	}

	display := req.DisplayName
	if display == "" {
		display = displayNameFor(name)
	}
	if err := h.eng.SetCategory(name, config.CategoryConfig{
		Enabled:     true,
		DataFile:    filename,
		DisplayName: display,
	}); err != nil {
		h.log.Warn("category registration failed", slog.String("error", err.Error()))
	}

	h.log.Info("calendar created", slog.String("file", filename))
	writeJSON(w, http.StatusCreated, map[string]any{"filename": filename, "category": name})
}

// SaveFile replaces a calendar file's contents and reloads the category.
func (h *Handler) SaveFile(w http.ResponseWriter, r *http.Request) {
	name, err := fileParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, err)
		return
	}

	var d dataset.Dataset
	if err := json.Unmarshal(body, &d); err != nil {
		writeError(w, fmt.Errorf("%w: bad calendar json: %v", apperr.ErrInvalid, err))
		return
	}
	if err := validateDayKeys(d); err != nil {
		writeError(w, err)
		return
	}

	if err := writeJSONFile(filepath.Join(h.store.Dir(), name), d); err != nil {
		writeError(w, err)
		return
	}
	h.store.ReloadFile(name)
	h.resolver.Invalidate()

	h.log.Info("calendar saved", slog.String("file", name), slog.Int("entries", len(d)))
	writeJSON(w, http.StatusOK, map[string]any{"filename": name, "entries": len(d)})
}

// UploadFile accepts a multipart calendar upload and registers its category.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, fmt.Errorf("%w: bad multipart form: %v", apperr.ErrInvalid, err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, fmt.Errorf("%w: missing file field", apperr.ErrInvalid))
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if err := validateFilename(name); err != nil {
		writeError(w, err)
		return
	}

	body, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, err)
		return
	}
	var d dataset.Dataset
	if err := json.Unmarshal(body, &d); err != nil {
		writeError(w, fmt.Errorf("%w: bad calendar json: %v", apperr.ErrInvalid, err))
		return
	}
	if err := validateDayKeys(d); err != nil {
		writeError(w, err)
		return
	}

	if err := writeJSONFile(filepath.Join(h.store.Dir(), name), d); err != nil {
		writeError(w, err)
		return
	}

	category := strings.TrimSuffix(name, ".json")
	if err := h.eng.SetCategory(category, config.CategoryConfig{
		Enabled:     true,
		DataFile:    name,
		DisplayName: displayNameFor(category),
	}); err != nil {
		h.log.Warn("category registration failed", slog.String("error", err.Error()))
	}

	h.log.Info("calendar uploaded", slog.String("file", name), slog.Int("entries", len(d)))
	writeJSON(w, http.StatusCreated, map[string]any{"filename": name, "entries": len(d)})
}

// DeleteFile removes a calendar file and deregisters its category.
func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	name, err := fileParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	path := filepath.Join(h.store.Dir(), name)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			writeError(w, fmt.Errorf("file %s: %w", name, apperr.ErrNotFound))
			return
		}
		writeError(w, err)
		return
	}

	category := strings.TrimSuffix(name, ".json")
	if err := h.eng.RemoveCategory(category); err != nil {
		h.log.Warn("category removal failed", slog.String("error", err.Error()))
	}

	h.log.Info("calendar deleted", slog.String("file", name))
	writeJSON(w, http.StatusOK, map[string]any{"filename": name})
}

// ToggleCategory flips a category's enabled flag.
func (h *Handler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	enabled, err := h.eng.ToggleCategory(name)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %v", apperr.ErrNotFound, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": name, "enabled": enabled})
}

type configRequest struct {
	DisplayRotateInterval  float64 `json:"display_rotate_interval"`
	SubtitleRotateInterval float64 `json:"subtitle_rotate_interval"`
	UpdateInterval         float64 `json:"update_interval"`
}

// UpdateConfig updates the rotation and refresh intervals.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: bad json: %v", apperr.ErrInvalid, err))
		return
	}
	if req.DisplayRotateInterval < 0 || req.SubtitleRotateInterval < 0 || req.UpdateInterval < 0 {
		writeError(w, fmt.Errorf("%w: intervals must be positive", apperr.ErrInvalid))
		return
	}
	if err := h.eng.SetIntervals(req.DisplayRotateInterval, req.SubtitleRotateInterval, req.UpdateInterval); err != nil {
		writeError(w, fmt.Errorf("%w: %v", apperr.ErrInvalid, err))
		return
	}
	cfg := h.eng.Config()
	writeJSON(w, http.StatusOK, map[string]any{
		"display_rotate_interval":  cfg.DisplayRotateInterval,
		"subtitle_rotate_interval": cfg.SubtitleRotateInterval,
		"update_interval":          cfg.UpdateInterval,
	})
}

func fileParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if err := validateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}

// validateFilename rejects path traversal and anything but flat .json names.
func validateFilename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: filename is required", apperr.ErrInvalid)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid filename", apperr.ErrInvalid)
	}
	if !strings.HasSuffix(name, ".json") {
		return fmt.Errorf("%w: filename must end in .json", apperr.ErrInvalid)
	}
	return nil
}

func validateDayKeys(d dataset.Dataset) error {
	for key := range d {
		day, err := strconv.Atoi(key)
		if err != nil || day < 1 || day > 366 {
			return fmt.Errorf("%w: bad day key %q", apperr.ErrInvalid, key)
		}
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// displayNameFor turns a category identifier into a human name:
// "word_of_the_day" becomes "Word Of The Day".
func displayNameFor(category string) string {
	words := strings.Split(category, "_")
	for i, wd := range words {
		if wd == "" {
			continue
		}
		words[i] = strings.ToUpper(wd[:1]) + wd[1:]
	}
	return strings.Join(words, " ")
}
