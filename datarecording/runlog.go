package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RunInfo is one property of the recorded program run.
type RunInfo struct {
	Property string
	Value    string
}

// RunRecorder logs the execution context of the current run.
type RunRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []RunInfo
}

// NewRunRecorder creates a RunRecorder on top of a DataRecorder and
// creates a time-stamped table for the run.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	r := &RunRecorder{
		recorder: recorder,
	}

	timestamp := time.Now().Format("2006_01_02_15_04_05")
	r.tableName = "flowprop_run_log_" + timestamp
	r.recorder.CreateTable(r.tableName, RunInfo{})

	return r
}

// Record captures the start time, the command line, and the executable
// path of the current run.
func (r *RunRecorder) Record() {
	startTime := time.Now().Format("2006-01-02 15:04:05")
	r.entries = append(r.entries, RunInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	r.entries = append(r.entries, RunInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	path := filepath.Dir(ex)
	r.entries = append(r.entries, RunInfo{"Path", path})
}

// Flush writes the captured entries into the database along with the
// program end time.
func (r *RunRecorder) Flush() {
	for _, entry := range r.entries {
		r.recorder.InsertData(r.tableName, entry)
	}

	endTime := time.Now().Format("2006-01-02 15:04:05")
	r.recorder.InsertData(r.tableName, RunInfo{"End Time", endTime})

	r.entries = nil

	r.recorder.Flush()
}
