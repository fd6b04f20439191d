// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package trace records a human-readable decision trail for query
// processing, separate from operational logging. The trail is exposed
// verbatim over the HTTP surface so users can inspect how their query
// was routed and answered.
package trace

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrNoLog indicates that no trace events have been recorded yet.
var ErrNoLog = errors.New("no trace log")

// DefaultFilename is the trace file name used when none is configured.
const DefaultFilename = "trace.log"

// Log appends timestamped trace events to a file. The file is created
// lazily on the first event. Contents returns ErrNoLog until the file
// exists, so a trail left by a previous process stays readable. Safe
// for concurrent use.
type Log struct {
	mu   sync.Mutex
	path string
	file *os.File
	now  func() time.Time
}

// New creates a trace log that writes to the given path.
func New(path string) *Log {
	return &Log{
		path: path,
		now:  time.Now,
	}
}

// Event appends a single trace line. The line format is
// "2006-01-02 15:04:05 - INFO - message".
func (l *Log) Event(format string, args ...any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("trace: opening %s: %w", l.path, err)
		}
		l.file = f
	}

	line := fmt.Sprintf("%s - INFO - %s\n",
		l.now().Format("2006-01-02 15:04:05"),
		fmt.Sprintf(format, args...))
	if _, err := l.file.WriteString(line); err != nil {
		return fmt.Errorf("trace: writing event: %w", err)
	}
	return nil
}

// Contents returns the full trace log. Returns ErrNoLog if the trace
// file does not exist, whether because no event has been recorded yet
// or because the file was removed.
func (l *Log) Contents() (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoLog
	}
	if err != nil {
		return "", fmt.Errorf("trace: reading %s: %w", l.path, err)
	}
	return string(data), nil
}

// Close closes the underlying file if it was opened.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
