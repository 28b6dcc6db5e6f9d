// Package profiler converts profiler exports for the QA analysis software:
// the user picks one export per machine option, the decimal commas are
// rewritten into a dated copy in the shared folder and the original is
// archived.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/fquilmes/coma2punto/internal/config"
	"github.com/fquilmes/coma2punto/internal/logging"
	"github.com/fquilmes/coma2punto/internal/prompt"
	"github.com/fquilmes/coma2punto/textnorm"
)

// Selection is a file chosen for one option of one machine.
type Selection struct {
	Path    string
	Option  string
	Machine string
}

// Result describes a processed selection.
type Result struct {
	Selection
	// Output is the normalized copy in the shared folder.
	Output string
	// Archived is the new location of the original file.
	Archived string
}

// Workflow runs the profiler conversion.
type Workflow struct {
	Config   config.ProfilerConfig
	Prompter prompt.Prompter
	Notifier prompt.Notifier
	Logger   *logging.Logger
	// Now returns the date used in output names. Defaults to time.Now.
	Now func() time.Time
}

// OutputName returns the name of the normalized copy,
// "{option}_{machine}_modificado_{date}{ext}".
func OutputName(option, machine, date, ext string) string {
	return fmt.Sprintf("%s_%s_modificado_%s%s", option, machine, date, ext)
}

func (w *Workflow) logger() *logging.Logger {
	if w.Logger == nil {
		return logging.NewNop()
	}
	return w.Logger
}

func (w *Workflow) notify(title, message string) {
	if w.Notifier != nil {
		w.Notifier.Notify(title, message)
	}
}

// Collect asks for machines, their options and one file per option. Options
// whose file dialog is cancelled are skipped. A cancelled machine dialog
// yields no selections.
func (w *Workflow) Collect(ctx context.Context) ([]Selection, error) {
	machines, err := w.Prompter.SelectMultiple(ctx, "Seleccione el equipo:", w.Config.MachineNames())
	if err != nil {
		return nil, err
	}
	var selections []Selection
	lastDir := w.Config.ShareDir
	for _, name := range machines {
		machine, ok := w.Config.Machine(name)
		if !ok {
			return nil, fmt.Errorf("unknown machine %q", name)
		}
		options, err := w.Prompter.SelectMultiple(ctx, fmt.Sprintf("Opciones para %s:", name), machine.Options)
		if err != nil {
			return nil, err
		}
		for _, option := range options {
			path, err := w.Prompter.SelectFile(ctx, fmt.Sprintf("Seleccione un archivo para %s", option), lastDir, w.Config.Extensions)
			if err != nil {
				return nil, err
			}
			if path == "" {
				w.logger().Debug("File selection cancelled",
					zap.String("machine", name), zap.String("option", option))
				continue
			}
			selections = append(selections, Selection{Path: path, Option: option, Machine: name})
			lastDir = filepath.Dir(path)
		}
	}
	return selections, nil
}

// Process normalizes one selection into the shared folder and moves the
// original to the machine's archive folder.
func (w *Workflow) Process(sel Selection, date string) (Result, error) {
	machine, ok := w.Config.Machine(sel.Machine)
	if !ok {
		return Result{}, fmt.Errorf("unknown machine %q", sel.Machine)
	}
	res := Result{Selection: sel}

	name := OutputName(sel.Option, sel.Machine, date, filepath.Ext(sel.Path))
	res.Output = filepath.Join(w.Config.ShareDir, name)
	if err := textnorm.NormalizeFile(sel.Path, res.Output); err != nil {
		return res, err
	}
	w.logger().LogFileEvent("normalized", sel.Path, zap.String("output", res.Output))
	w.notify("Archivo modificado",
		fmt.Sprintf("Archivo modificado guardado como: %s en %s", name, w.Config.ShareDir))

	if err := os.MkdirAll(machine.ArchiveDir, 0o755); err != nil {
		return res, fmt.Errorf("create archive folder: %w", err)
	}
	archived := filepath.Join(machine.ArchiveDir, filepath.Base(sel.Path))
	if err := moveFile(sel.Path, archived); err != nil {
		return res, err
	}
	res.Archived = archived
	w.logger().LogFileEvent("archived", sel.Path, zap.String("archive", archived))
	w.notify("Archivo original movido",
		fmt.Sprintf("Archivo original movido a: %s", machine.ArchiveDir))
	return res, nil
}

// Run collects the selections and processes them in order. It stops at the
// first failure and returns the results completed so far.
func (w *Workflow) Run(ctx context.Context) ([]Result, error) {
	selections, err := w.Collect(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	date := now().Format(w.Config.DateLayout)

	results := make([]Result, 0, len(selections))
	for _, sel := range selections {
		res, err := w.Process(sel, date)
		if err != nil {
			w.logger().Error("Processing failed",
				zap.String("path", sel.Path), zap.String("machine", sel.Machine), zap.Error(err))
			return results, fmt.Errorf("%s (%s, %s): %w", sel.Path, sel.Machine, sel.Option, err)
		}
		results = append(results, res)
	}
	w.logger().Info("Profiler run finished", zap.Int("files", len(results)))
	return results, nil
}

// moveFile renames src to dst, copying across file systems.
func moveFile(src, dst string) error {
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return errors.Join(renameErr, err)
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	st, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, st.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
