package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/quadono/internal/alarm"
	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/clock"
	"github.com/twiced-technology-gmbh/quadono/internal/focus"
	"github.com/twiced-technology-gmbh/quadono/internal/task"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

func sampleGroups() []task.Group {
	return task.GroupByQuadrant([]task.Task{
		{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", Title: "Pay taxes", Quadrant: 1, EstimateMinutes: 60},
		{ID: "7c9e6679-7425-40de-944b-e07fc1f90ae7", Title: "Read book", Quadrant: 4, EstimateMinutes: 30},
		{ID: "a1b2c3d4-0000-4000-8000-000000000000", Title: "Call mom", Quadrant: 1, EstimateMinutes: 10},
	})
}

func TestDetect(t *testing.T) {
	t.Setenv("QUADONO_OUTPUT", "")
	assert.Equal(t, FormatJSON, Detect(true, true))
	assert.Equal(t, FormatCompact, Detect(false, true))
	assert.Equal(t, FormatTable, Detect(false, false))

	t.Setenv("QUADONO_OUTPUT", "json")
	assert.Equal(t, FormatJSON, Detect(false, false))
}

func TestGroupedTable(t *testing.T) {
	var buf bytes.Buffer
	GroupedTable(&buf, sampleGroups())
	out := buf.String()

	assert.Contains(t, out, "Q1 Urgent & important (2)")
	assert.Contains(t, out, "Q4 Neither urgent nor important (1)")
	assert.Contains(t, out, "0f8fad5b")
	assert.NotContains(t, out, "0f8fad5b-d9cb", "only the short id is listed")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Pay taxes")), bytes.Index(buf.Bytes(), []byte("Call mom")))
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Call mom")), bytes.Index(buf.Bytes(), []byte("Read book")))
}

func TestGroupedTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	GroupedTable(&buf, nil)
	assert.Contains(t, buf.String(), "No pending tasks.")
}

func TestGroupedCompact(t *testing.T) {
	var buf bytes.Buffer
	GroupedCompact(&buf, sampleGroups())
	assert.Equal(t,
		"Q1 0f8fad5b Pay taxes 60m\nQ1 a1b2c3d4 Call mom 10m\nQ4 7c9e6679 Read book 30m\n",
		buf.String())
}

func TestTaskDetail(t *testing.T) {
	created := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	completed := created.Add(26 * time.Hour)
	tk := task.Task{ID: "abc", Title: "Ship", Quadrant: 2, EstimateMinutes: 90, Done: true, Created: created, Completed: &completed}

	var buf bytes.Buffer
	TaskDetail(&buf, tk)
	out := buf.String()
	assert.Contains(t, out, "2 Important, not urgent")
	assert.Contains(t, out, "90m")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "1d 2h")

	buf.Reset()
	TaskDetailCompact(&buf, tk)
	assert.Equal(t, "Q2 abc Ship 90m done:2026-01-02\n", buf.String())
}

func TestAlarmOutput(t *testing.T) {
	t1, _ := clock.ParseTimeOfDay("7:05")
	alarms := []alarm.Alarm{{Time: t1, Note: "stretch"}}

	var buf bytes.Buffer
	AlarmTable(&buf, alarms)
	assert.Contains(t, buf.String(), "07:05  stretch")

	buf.Reset()
	AlarmsCompact(&buf, alarms)
	assert.Equal(t, "07:05|stretch\n", buf.String())

	buf.Reset()
	AlarmTable(&buf, nil)
	assert.Contains(t, buf.String(), "No alarms set.")
}

func TestHistoryMarkdown(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	md := HistoryMarkdown([]focus.Record{
		{Timestamp: day1, Task: "a|b", WorkMinutes: 25},
		{Timestamp: day2, Task: "none", WorkMinutes: 25},
		{Timestamp: day2.Add(time.Hour), Task: "c", WorkMinutes: 50},
	})

	assert.Contains(t, md, "## 2026-03-02 (2 sessions, 75 min)")
	assert.Contains(t, md, "## 2026-03-01 (1 sessions, 25 min)")
	assert.Less(t, bytes.Index([]byte(md), []byte("2026-03-02")), bytes.Index([]byte(md), []byte("2026-03-01")))
	assert.Contains(t, md, `a\|b`)
	assert.Contains(t, md, "**Total:** 3 sessions, 100 min")

	assert.Contains(t, HistoryMarkdown(nil), "No completed sessions yet")
}

func TestHistoryTable_RendersMarkdown(t *testing.T) {
	var buf bytes.Buffer
	err := HistoryTable(&buf, []focus.Record{
		{Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Task: "Write report", WorkMinutes: 25},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Focus history")
	assert.Contains(t, buf.String(), "Write report")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	JSONError(&buf, clierr.New(clierr.InvalidTime, "invalid time \"25:00\"").
		WithDetails(map[string]any{"time": "25:00"}))

	var resp ErrorEnvelope
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, clierr.InvalidTime, resp.Code)
	assert.Equal(t, "25:00", resp.Details["time"])

	buf.Reset()
	JSONError(&buf, fmt.Errorf("writing tasks: %w", errors.New("disk full")))
	resp = ErrorEnvelope{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, clierr.InternalError, resp.Code)
	assert.Equal(t, "writing tasks: disk full", resp.Error)
	assert.Nil(t, resp.Details)
}
