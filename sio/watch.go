package sio

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/Comcast/wfsm/config"
	"github.com/Comcast/wfsm/core"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads widgets when their configuration files change.
//
// The new FSM replaces the old one (via Host.Replace on the Loop
// goroutine) and keeps the old one's state and images when it can.  A
// configuration that can't be read or that has no states is ignored,
// so partially written files don't clobber a working widget.
type Watcher struct {
	Host *Host

	// Opts are given to config.Load.
	Opts []core.Option

	// Reloaded, if not nil, gets the name of each widget that was
	// reloaded.
	Reloaded chan string

	// files maps cleaned absolute filenames to widget names.
	files   map[string][]string
	watcher *fsnotify.Watcher
}

// NewWatcher starts watching the given files, which map filenames to
// the names of the widgets that use them (see Layout.Configs).
//
// Directories are watched rather than files because editors often
// replace files instead of writing them.
func NewWatcher(h *Host, files map[string][]string, opts ...core.Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		Host:    h,
		Opts:    opts,
		files:   make(map[string][]string, len(files)),
		watcher: fw,
	}

	dirs := make(map[string]bool)
	for filename, names := range files {
		abs, err := filepath.Abs(filename)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = append(w.files[abs], names...)
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	return w, nil
}

// Run processes file events until the context is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			filename := filepath.Clean(event.Name)
			names, have := w.files[filename]
			if !have {
				continue
			}
			if err := w.reload(ctx, filename, names); err != nil {
				w.Host.Logf("not reloading %v from %s: %v", names, filename, err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.Host.Logf("watcher error: %v", err)
		}
	}
}

// reload makes a new FSM for each of the named widgets, which share
// the file, and replaces them all or none.
func (w *Watcher) reload(ctx context.Context, filename string, names []string) error {
	ms := make([]*core.FSM, len(names))
	for i := range names {
		// Each widget needs its own Regions.
		m, err := config.Load(ctx, filename, w.Opts...)
		if err != nil {
			return err
		}
		if m.Current() == nil {
			return core.ErrNoStates
		}
		ms[i] = m
	}

	var replaceErr error
	if err := w.Host.Do(ctx, func(h *Host) {
		for _, name := range names {
			if h.Widget(name) == nil {
				replaceErr = fmt.Errorf("no widget %q", name)
				return
			}
		}
		for i, name := range names {
			h.Replace(name, ms[i])
		}
	}); err != nil {
		return err
	}
	if replaceErr != nil {
		return replaceErr
	}

	for _, name := range names {
		w.Host.Logf("reloaded %s from %s", name, filename)
		if w.Reloaded == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case w.Reloaded <- name:
		}
	}
	return nil
}
