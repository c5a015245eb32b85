//go:build darwin

package watch

import (
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sys/unix"
)

// FileWatcher watches a single file for writes via kqueue and invokes
// onChange each time a write settles.
type FileWatcher struct {
	kq       int
	fd       int
	path     string
	onChange func(string)
}

// New opens a kqueue and begins watching path. The caller must call
// Close when done.
func New(path string, onChange func(string)) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	kq, err := unix.Kqueue()
	if err != nil {
		return nil, fmt.Errorf("kqueue failed: %w", err)
	}

	fd, err := unix.Open(absPath, unix.O_RDONLY, 0)
	if err != nil {
		unix.Close(kq)
		return nil, fmt.Errorf("failed to open %s: %w", absPath, err)
	}

	event := unix.Kevent_t{
		Ident:  uint64(fd),
		Filter: unix.EVFILT_VNODE,
		Flags:  unix.EV_ADD | unix.EV_CLEAR,
		Fflags: unix.NOTE_WRITE | unix.NOTE_ATTRIB,
	}
	if _, err := unix.Kevent(kq, []unix.Kevent_t{event}, nil, nil); err != nil {
		unix.Close(fd)
		unix.Close(kq)
		return nil, fmt.Errorf("failed to add kevent for %s: %w", absPath, err)
	}

	return &FileWatcher{kq: kq, fd: fd, path: absPath, onChange: onChange}, nil
}

// Run blocks, invoking onChange once per settled write.
func (fw *FileWatcher) Run() {
	events := make([]unix.Kevent_t, 10)

	for {
		n, err := unix.Kevent(fw.kq, nil, events, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			time.Sleep(200 * time.Millisecond)
			continue
		}

		for i := 0; i < n; i++ {
			fw.onChange(fw.path)
		}
	}
}

// Close releases the kqueue and the watched file descriptor.
func (fw *FileWatcher) Close() error {
	unix.Close(fw.fd)
	return unix.Close(fw.kq)
}
