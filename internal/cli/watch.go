// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/google/autocxx-sub001/internal/config"
)

// watchAndGenerate regenerates whenever a watched source, header directory
// or the parser document changes. Events are debounced: editors fire
// several in quick succession for one save.
func watchAndGenerate(cfg *config.Config, args []string) error {
	if err := generateAll(cfg, args); err != nil {
		color.Red("initial generation failed: %v", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	files, err := expandSourceGlobs(args)
	if err != nil {
		return err
	}
	watched := make(map[string]bool)
	addDir := func(path string) {
		dir := filepath.Dir(path)
		if !watched[dir] {
			watched[dir] = true
			if err := watcher.Add(dir); err != nil {
				slog.Warn("cannot watch directory", "dir", dir, "error", err)
			}
		}
	}
	for _, f := range files {
		addDir(f)
	}
	addDir(genAstFile)
	for _, inc := range cfg.General.IncludeDirs {
		if err := watcher.Add(inc); err != nil {
			slog.Warn("cannot watch include dir", "dir", inc, "error", err)
		}
	}

	color.Cyan("watching %d directories; press Ctrl-C to stop", len(watched))
	var pending *time.Timer
	regen := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(250*time.Millisecond, func() {
				select {
				case regen <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watch error", "error", err)
		case <-regen:
			if err := generateAll(cfg, args); err != nil {
				color.Red("regeneration failed: %v", err)
			}
		}
	}
}
