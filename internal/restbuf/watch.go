package restbuf

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/atomx/atomx-cli/internal/endpoint"
)

// Watch monitors a request scratch file and invokes update whenever its
// :api declaration changes to a new endpoint. The parent directory is
// watched rather than the file itself because editors typically replace
// the file on save. Watch blocks until ctx is canceled or the watcher
// fails; update errors are reported to the callback's caller via onError
// and do not stop the watch.
func Watch(ctx context.Context, path string, update func(endpoint.Descriptor) error, onError func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	var last endpoint.Descriptor
	if lines, err := ReadLines(path); err == nil {
		if d, err := Endpoint(lines); err == nil {
			last = d
		}
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}

			lines, err := ReadLines(path)
			if err != nil {
				continue // mid-save, wait for the next event
			}
			d, err := Endpoint(lines)
			if err != nil || d == last {
				continue
			}
			if err := update(d); err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			last = d

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
