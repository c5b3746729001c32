package handlers

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLogFile(t *testing.T, path string, lines ...string) {
	t.Helper()
	body := strings.Join(lines, "\n") + "\n"
	if !strings.HasSuffix(path, ".gz") {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
}

func newLogsFixture(t *testing.T) *LogsHandler {
	t.Helper()
	dir := t.TempDir()
	writeLogFile(t, filepath.Join(dir, "app-2024-04-30T23-59-59.000.log.gz"),
		`{"level":"INFO","time":"2024-04-30T09:00:00.000Z","message":"server started","port":"5000"}`,
		`{"level":"WARN","time":"2024-05-01T08:15:00.000Z","message":"rate limit hit","rule":"otp_request"}`,
	)
	writeLogFile(t, filepath.Join(dir, "app.log"),
		`{"level":"INFO","time":"2024-05-01T09:01:00.000Z","message":"login succeeded"}`,
		`not json`,
		`{"level":"ERROR","time":"2024-05-01T09:30:00.000Z","message":"mail send failed","error":"dial tcp: timeout"}`,
		`{"level":"INFO","time":"2024-05-01T10:00:00.000Z","message":"plan created"}`,
	)
	writeLogFile(t, filepath.Join(dir, "other.txt"), `{"level":"INFO","time":"2024-05-01T10:00:00.000Z","message":"ignored"}`)

	h := NewLogsHandler(dir)
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func getLogs(t *testing.T, handler http.HandlerFunc, query string) (int, []byte) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/admin/logs"+query, nil))
	return rec.Code, rec.Body.Bytes()
}

func TestLogs_ListDaysNewestFirst(t *testing.T) {
	h := newLogsFixture(t)

	code, body := getLogs(t, h.ListDays, "/days")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	var resp logDaysResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if strings.Join(resp.Days, ",") != "2024-05-01,2024-04-30" {
		t.Errorf("days = %v", resp.Days)
	}
}

func TestLogs_DefaultsToTodayAcrossFiles(t *testing.T) {
	h := newLogsFixture(t)

	code, body := getLogs(t, h.GetLogs, "")
	if code != http.StatusOK {
		t.Fatalf("status %d: %s", code, body)
	}
	var resp logsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Day != "2024-05-01" || len(resp.Entries) != 4 {
		t.Fatalf("got day %s with %d entries", resp.Day, len(resp.Entries))
	}
	if resp.Entries[0].Message != "rate limit hit" || resp.Entries[0].Fields["rule"] != "otp_request" {
		t.Errorf("first entry should come from the backup: %+v", resp.Entries[0])
	}
	if resp.NextCursor != 0 {
		t.Errorf("unexpected cursor %d", resp.NextCursor)
	}
}

func TestLogs_Filters(t *testing.T) {
	h := newLogsFixture(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"level", "?level=error,warn", []string{"rate limit hit", "mail send failed"}},
		{"hour", "?hour=9", []string{"login succeeded", "mail send failed"}},
		{"search matches fields", "?q=TIMEOUT", []string{"mail send failed"}},
		{"other day", "?day=2024-04-30", []string{"server started"}},
		{"combined", "?level=INFO&hour=10", []string{"plan created"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, body := getLogs(t, h.GetLogs, tt.query)
			var resp logsResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, e := range resp.Entries {
				got = append(got, e.Message)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogs_CursorPaging(t *testing.T) {
	h := newLogsFixture(t)

	var first logsResponse
	_, body := getLogs(t, h.GetLogs, "?limit=3")
	if err := json.Unmarshal(body, &first); err != nil {
		t.Fatal(err)
	}
	if len(first.Entries) != 3 || first.NextCursor != 3 {
		t.Fatalf("first page: %d entries, cursor %d", len(first.Entries), first.NextCursor)
	}

	var second logsResponse
	_, body = getLogs(t, h.GetLogs, "?limit=3&cursor=3")
	if err := json.Unmarshal(body, &second); err != nil {
		t.Fatal(err)
	}
	if len(second.Entries) != 1 || second.Entries[0].Message != "plan created" || second.NextCursor != 0 {
		t.Errorf("second page: %+v", second)
	}
}

func TestLogs_BadParams(t *testing.T) {
	h := newLogsFixture(t)

	for _, q := range []string{"?day=May-1", "?hour=24", "?hour=x"} {
		if code, _ := getLogs(t, h.GetLogs, q); code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", q, code)
		}
	}
}

func TestLogs_Stats(t *testing.T) {
	h := newLogsFixture(t)

	code, body := getLogs(t, h.Stats, "/stats?day=2024-05-01")
	if code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	var resp logStatsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Totals["INFO"] != 2 || resp.Totals["WARN"] != 1 || resp.Totals["ERROR"] != 1 {
		t.Errorf("totals = %v", resp.Totals)
	}
	if len(resp.Hours) != 24 || resp.Hours[9].Counts["ERROR"] != 1 || resp.Hours[8].Counts["WARN"] != 1 {
		t.Errorf("hours = %+v", resp.Hours)
	}
}

func TestLogs_MissingDirIsEmpty(t *testing.T) {
	h := NewLogsHandler(filepath.Join(t.TempDir(), "nope"))

	code, body := getLogs(t, h.GetLogs, "?day=2024-05-01")
	if code != http.StatusOK || !strings.Contains(string(body), `"entries":[]`) {
		t.Errorf("status %d body %s", code, body)
	}
}
