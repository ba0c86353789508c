package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/sprocgen/compiler/gen"
)

// debounce coalesces the burst of events editors emit for one save.
const debounce = 100 * time.Millisecond

// watch calls regenerate after each change to one of files, until ctx is
// done. Regeneration errors are reported and watching continues.
func watch(ctx context.Context, e *env, files []string, regenerate func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Watch the directory: editors often replace the file on save.
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			e.logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			pending = time.After(debounce)
		case <-pending:
			pending = nil
			if err := regenerate(); err != nil {
				e.warn("%v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.warn("watch: %v", err)
		}
	}
}

func newWatchCmd(e *env) *cobra.Command {
	o := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the schema or config file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			regenerate := func() error { return o.run(ctx, cmd, e) }
			if err := regenerate(); err != nil {
				e.warn("%v", err)
			}
			files := []string{o.schemaFile}
			if cfg := e.configFile; cfg != "" {
				files = append(files, cfg)
			} else if cfg := gen.FindConfigFile(""); cfg != "" {
				files = append(files, cfg)
			}
			e.success("watching %d files, press Ctrl+C to stop", len(files))
			return watch(ctx, e, files, regenerate)
		},
	}
	o.register(cmd)
	return cmd
}
