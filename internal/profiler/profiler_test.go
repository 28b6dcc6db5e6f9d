package profiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fquilmes/coma2punto/internal/config"
	"github.com/fquilmes/coma2punto/internal/logging"
	"github.com/fquilmes/coma2punto/internal/prompt"
	"github.com/fquilmes/coma2punto/textnorm"
)

type fixture struct {
	share, inbox string
	cfg          config.ProfilerConfig
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		share: filepath.Join(root, "share"),
		inbox: filepath.Join(root, "inbox"),
	}
	require.NoError(t, os.MkdirAll(f.share, 0o755))
	require.NoError(t, os.MkdirAll(f.inbox, 0o755))
	cfg := &config.Config{Profiler: config.ProfilerConfig{ShareDir: f.share}}
	config.ApplyDefaults(cfg)
	f.cfg = cfg.Profiler
	return f
}

func (f *fixture) export(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(f.inbox, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func fixedNow() time.Time {
	return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.Local)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "PyS X06_Equipo 1_modificado_05_03_2024.txt",
		OutputName("PyS X06", "Equipo 1", fixedNow().Format(config.DefaultDateLayout), ".txt"))
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	pys := f.export(t, "pys.txt", "0,5\t1,25\n")
	edw := f.export(t, "edw.txt", "2,0\n")
	eq2 := f.export(t, "eq2.txt", "3,5\n")

	p := &prompt.Scripted{
		Selections: [][]string{
			{"Equipo 1", "Equipo 2"},
			{"PyS X06", "EDW X06"},
			{"PyS E12"},
		},
		Files: []string{pys, edw, eq2},
	}
	core, logs := observer.New(zapcore.InfoLevel)
	w := &Workflow{
		Config:   f.cfg,
		Prompter: p,
		Notifier: p,
		Logger:   logging.Wrap(zap.New(core)),
		Now:      fixedNow,
	}
	results, err := w.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	out := filepath.Join(f.share, "PyS X06_Equipo 1_modificado_05_03_2024.txt")
	assert.Equal(t, out, results[0].Output)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0.5\t1.25\n", string(data))

	data, err = os.ReadFile(filepath.Join(f.share, "PyS E12_Equipo 2_modificado_05_03_2024.txt"))
	require.NoError(t, err)
	assert.Equal(t, "3.5\n", string(data))

	// Originals were moved, unchanged, to the archive folders.
	eq1Archive, _ := f.cfg.Machine("Equipo 1")
	archived := filepath.Join(eq1Archive.ArchiveDir, "pys.txt")
	assert.Equal(t, archived, results[0].Archived)
	data, err = os.ReadFile(archived)
	require.NoError(t, err)
	assert.Equal(t, "0,5\t1,25\n", string(data))
	_, err = os.Stat(pys)
	assert.ErrorIs(t, err, os.ErrNotExist)

	eq2Archive, _ := f.cfg.Machine("Equipo 2")
	assert.FileExists(t, filepath.Join(eq2Archive.ArchiveDir, "eq2.txt"))

	// Two notifications per file.
	require.Len(t, p.Notices, 6)
	assert.Equal(t, "Archivo modificado", p.Notices[0].Title)
	assert.Contains(t, p.Notices[0].Message, "PyS X06_Equipo 1_modificado_05_03_2024.txt")
	assert.Equal(t, "Archivo original movido", p.Notices[1].Title)

	// The first dialog opens in the share folder, later ones in the folder
	// of the previous pick.
	assert.Equal(t, []string{f.share, f.inbox, f.inbox}, p.Dirs)
	assert.Equal(t, []string{
		"Seleccione el equipo:",
		"Opciones para Equipo 1:",
		"Seleccione un archivo para PyS X06",
		"Seleccione un archivo para EDW X06",
		"Opciones para Equipo 2:",
		"Seleccione un archivo para PyS E12",
	}, p.Prompts)

	assert.Equal(t, 6, logs.FilterMessage("File event").Len())
	assert.Equal(t, 1, logs.FilterMessage("Profiler run finished").Len())
}

func TestRunCancelledMachineDialog(t *testing.T) {
	f := newFixture(t)
	p := &prompt.Scripted{Selections: [][]string{nil}}
	w := &Workflow{Config: f.cfg, Prompter: p, Notifier: p}
	results, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, p.Notices)
}

func TestRunSkipsCancelledFiles(t *testing.T) {
	f := newFixture(t)
	edw := f.export(t, "edw.txt", "1,0")
	p := &prompt.Scripted{
		Selections: [][]string{{"Equipo 1"}, {"PyS X06", "EDW X06"}},
		Files:      []string{"", edw},
	}
	w := &Workflow{Config: f.cfg, Prompter: p, Notifier: p, Now: fixedNow}
	results, err := w.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "EDW X06", results[0].Option)
	// A cancelled pick does not change the starting folder.
	assert.Equal(t, []string{f.share, f.share}, p.Dirs)
}

func TestRunCancelledOptions(t *testing.T) {
	f := newFixture(t)
	p := &prompt.Scripted{Selections: [][]string{{"Equipo 1"}, nil}}
	w := &Workflow{Config: f.cfg, Prompter: p}
	results, err := w.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	f := newFixture(t)
	missing := filepath.Join(f.inbox, "gone.txt")
	later := f.export(t, "later.txt", "1,0")
	p := &prompt.Scripted{
		Selections: [][]string{{"Equipo 1"}, {"PyS X06", "EDW X06"}},
		Files:      []string{missing, later},
	}
	w := &Workflow{Config: f.cfg, Prompter: p, Notifier: p, Now: fixedNow}
	results, err := w.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, results)
	var ioErr *textnorm.IOError
	assert.ErrorAs(t, err, &ioErr)

	// The second file was not touched.
	assert.FileExists(t, later)
	assert.Empty(t, p.Notices)
}

func TestRunPromptError(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := &Workflow{Config: f.cfg, Prompter: &prompt.Scripted{}}
	_, err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessUnknownMachine(t *testing.T) {
	f := newFixture(t)
	w := &Workflow{Config: f.cfg}
	_, err := w.Process(Selection{Path: "x.txt", Option: "PyS X06", Machine: "Equipo 9"}, "01_01_2024")
	assert.Error(t, err)
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "sub", "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))

	require.NoError(t, moveFile(src, dst))
	assert.NoFileExists(t, src)
	assert.FileExists(t, dst)

	assert.Error(t, moveFile(src, dst), "source no longer exists")
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dst := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(src, []byte("datos"), 0o640))
	require.NoError(t, copyFile(src, dst))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "datos", string(data))
}
