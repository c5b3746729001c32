package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"iptvsite/internal/apperr"
	"iptvsite/internal/logger"
	"iptvsite/internal/utils/helpers"

	"go.uber.org/zap"
)

const (
	logsDefaultLimit = 200
	logsMaxLimit     = 1000
)

// LogsHandler reads the JSON log files written by the logger: the live
// app.log plus lumberjack backups named app-<timestamp>.log[.gz].
type LogsHandler struct {
	dir string
	now func() time.Time
}

func NewLogsHandler(dir string) *LogsHandler {
	return &LogsHandler{dir: dir, now: time.Now}
}

type logEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

type logsResponse struct {
	Day        string     `json:"day"`
	Entries    []logEntry `json:"entries"`
	NextCursor int        `json:"nextCursor,omitempty"`
}

type logDaysResponse struct {
	Days []string `json:"days"`
}

type logHourStats struct {
	Hour   int            `json:"hour"`
	Counts map[string]int `json:"counts"`
}

type logStatsResponse struct {
	Day    string         `json:"day"`
	Totals map[string]int `json:"totals"`
	Hours  []logHourStats `json:"hours"`
}

// ListDays godoc
// @Summary Days with log entries
// @Tags admin-logs
// @Produce json
// @Success 200 {object} logDaysResponse
// @Router /api/admin/logs/days [get]
func (h *LogsHandler) ListDays(w http.ResponseWriter, r *http.Request) {
	seen := map[string]bool{}
	err := h.scan(r, func(e logEntry, _ string) bool {
		if len(e.Time) >= 10 {
			seen[e.Time[:10]] = true
		}
		return true
	})
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	days := make([]string, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	helpers.JSON(w, http.StatusOK, logDaysResponse{Days: days})
}

// GetLogs godoc
// @Summary Log entries for one day
// @Description Filters combine: level is a comma separated list, hour is 0-23, q is a case-insensitive substring.
// @Tags admin-logs
// @Produce json
// @Param day query string false "YYYY-MM-DD, defaults to today"
// @Param level query string false "INFO,WARN,ERROR"
// @Param hour query int false "Hour of day"
// @Param q query string false "Search text"
// @Param limit query int false "Page size (max 1000)"
// @Param cursor query int false "Entries to skip"
// @Success 200 {object} logsResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/logs [get]
func (h *LogsHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	day, err := h.day(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	hour, err := parseHour(r.URL.Query().Get("hour"))
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	levels := upperSet(r.URL.Query().Get("level"))
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	limit := clampAtoi(r.URL.Query().Get("limit"), logsDefaultLimit, 1, logsMaxLimit)
	cursor := clampAtoi(r.URL.Query().Get("cursor"), 0, 0, int(^uint(0)>>1))

	resp := logsResponse{Day: day, Entries: []logEntry{}}
	matched := 0
	err = h.scan(r, func(e logEntry, raw string) bool {
		if !strings.HasPrefix(e.Time, day) {
			return true
		}
		if len(levels) > 0 && !levels[e.Level] {
			return true
		}
		if hour >= 0 && entryHour(e) != hour {
			return true
		}
		if q != "" && !strings.Contains(strings.ToLower(raw), q) {
			return true
		}
		matched++
		if matched <= cursor {
			return true
		}
		if len(resp.Entries) == limit {
			resp.NextCursor = cursor + limit
			return false
		}
		resp.Entries = append(resp.Entries, e)
		return true
	})
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

// Stats godoc
// @Summary Per-hour entry counts by level
// @Tags admin-logs
// @Produce json
// @Param day query string false "YYYY-MM-DD, defaults to today"
// @Success 200 {object} logStatsResponse
// @Failure 400 {object} helpers.ErrorResponse
// @Router /api/admin/logs/stats [get]
func (h *LogsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	day, err := h.day(r)
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	resp := logStatsResponse{Day: day, Totals: map[string]int{}, Hours: make([]logHourStats, 24)}
	for i := range resp.Hours {
		resp.Hours[i] = logHourStats{Hour: i, Counts: map[string]int{}}
	}
	err = h.scan(r, func(e logEntry, _ string) bool {
		if !strings.HasPrefix(e.Time, day) {
			return true
		}
		resp.Totals[e.Level]++
		if hr := entryHour(e); hr >= 0 {
			resp.Hours[hr].Counts[e.Level]++
		}
		return true
	})
	if err != nil {
		helpers.Fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, resp)
}

func (h *LogsHandler) day(r *http.Request) (string, error) {
	d := strings.TrimSpace(r.URL.Query().Get("day"))
	if d == "" {
		return h.now().Format(time.DateOnly), nil
	}
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return "", apperr.Validation("day must be YYYY-MM-DD")
	}
	return d, nil
}

// scan feeds every parsable line of every log file, oldest file first, to fn
// until fn returns false. Lines that are not JSON objects are skipped.
func (h *LogsHandler) scan(r *http.Request, fn func(e logEntry, raw string) bool) error {
	files, err := h.files()
	if err != nil {
		return apperr.Server("cannot list log files", err)
	}
	for _, name := range files {
		if r.Context().Err() != nil {
			return r.Context().Err()
		}
		more, err := scanFile(filepath.Join(h.dir, name), fn)
		if err != nil {
			logger.WithCtx(r.Context()).Warn("log file unreadable", zap.String("file", name), zap.Error(err))
			continue
		}
		if !more {
			return nil
		}
	}
	return nil
}

// files lists backups in rotation order followed by the live file.
// Backup timestamps sort lexically.
func (h *LogsHandler) files() ([]string, error) {
	entries, err := os.ReadDir(h.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var backups []string
	live := false
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == logger.File:
			live = true
		case strings.HasPrefix(name, "app-") && (strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.gz")):
			backups = append(backups, name)
		}
	}
	sort.Strings(backups)
	if live {
		backups = append(backups, logger.File)
	}
	return backups, nil
}

func scanFile(path string, fn func(e logEntry, raw string) bool) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return true, err
	}
	defer f.Close()

	var rd io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true, err
		}
		defer gz.Close()
		rd = gz
	}

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64<<10), 1<<20)
	for sc.Scan() {
		raw := sc.Text()
		e, ok := parseLogLine(raw)
		if !ok {
			continue
		}
		if !fn(e, raw) {
			return false, nil
		}
	}
	return true, sc.Err()
}

func parseLogLine(raw string) (logEntry, bool) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return logEntry{}, false
	}
	e := logEntry{
		Time:    getString(fields, "time"),
		Level:   strings.ToUpper(getString(fields, "level")),
		Message: getString(fields, "message"),
	}
	delete(fields, "time")
	delete(fields, "level")
	delete(fields, "message")
	if len(fields) > 0 {
		e.Fields = fields
	}
	return e, e.Time != ""
}

// entryHour is the hour as written, in the zone the process logged in.
func entryHour(e logEntry) int {
	t, err := time.Parse(logger.TimeLayout, e.Time)
	if err != nil {
		return -1
	}
	return t.Hour()
}

func parseHour(s string) (int, error) {
	if s == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 23 {
		return 0, apperr.Validation("hour must be between 0 and 23")
	}
	return n, nil
}

func clampAtoi(s string, def, lo, hi int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return max(lo, min(n, hi))
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func upperSet(csv string) map[string]bool {
	out := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.ToUpper(strings.TrimSpace(p)); p != "" {
			out[p] = true
		}
	}
	return out
}
