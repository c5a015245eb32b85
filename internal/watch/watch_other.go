//go:build !linux && !darwin

package watch

import (
	"os"
	"path/filepath"
	"time"
)

// FileWatcher polls a single file's modification time, for platforms
// without a native file-change notification mechanism wired up.
type FileWatcher struct {
	path     string
	onChange func(string)
	lastMod  time.Time
	stop     chan struct{}
}

// New begins polling path for modification-time changes.
func New(path string, onChange func(string)) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		path:     absPath,
		onChange: onChange,
		lastMod:  info.ModTime(),
		stop:     make(chan struct{}),
	}, nil
}

// Run blocks, polling every 500ms until Close is called.
func (fw *FileWatcher) Run() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			info, err := os.Stat(fw.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(fw.lastMod) {
				fw.lastMod = info.ModTime()
				fw.onChange(fw.path)
			}
		case <-fw.stop:
			return
		}
	}
}

// Close stops the polling loop.
func (fw *FileWatcher) Close() error {
	close(fw.stop)
	return nil
}
