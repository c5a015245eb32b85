//go:build linux

package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// FileWatcher watches a single file for writes via inotify and invokes
// onChange for every modify or close-after-write event; events are not
// debounced, so one save may trigger more than one call.
type FileWatcher struct {
	fd       int
	wd       int
	path     string
	onChange func(string)
}

// New opens the watch descriptor and begins watching path. The caller
// must call Close when done.
func New(path string, onChange func(string)) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fd, err := unix.InotifyInit1(unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify_init failed: %w", err)
	}

	wd, err := unix.InotifyAddWatch(fd, absPath, unix.IN_MODIFY|unix.IN_CLOSE_WRITE)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	return &FileWatcher{fd: fd, wd: wd, path: absPath, onChange: onChange}, nil
}

// Run blocks, invoking onChange once per matching inotify event, and
// never returns; the process runs until it is interrupted.
func (fw *FileWatcher) Run() {
	buf := make([]byte, unix.SizeofInotifyEvent*10)

	for {
		n, err := unix.Read(fw.fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			fmt.Fprintf(os.Stderr, "watch: read error: %v\n", err)
			time.Sleep(200 * time.Millisecond)
			continue
		}

		offset := 0
		for offset < n {
			event := (*unix.InotifyEvent)(unsafe.Pointer(&buf[offset]))
			offset += unix.SizeofInotifyEvent + int(event.Len)

			if event.Mask&(unix.IN_MODIFY|unix.IN_CLOSE_WRITE) != 0 {
				fw.onChange(fw.path)
			}
		}
	}
}

// Close releases the watch descriptor.
func (fw *FileWatcher) Close() error {
	unix.InotifyRmWatch(fw.fd, uint32(fw.wd))
	return unix.Close(fw.fd)
}
