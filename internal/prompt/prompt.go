// Package prompt provides the interactive dialogs used by the profiler
// workflow: multiple choice, file selection and notifications.
package prompt

import (
	"context"
)

// Prompter blocks until the user answers.
type Prompter interface {
	// SelectMultiple asks for any number of options. It returns nil when
	// the dialog is cancelled or nothing is chosen.
	SelectMultiple(ctx context.Context, prompt string, options []string) ([]string, error)

	// SelectFile asks for one file, starting in dir. Only files with one of
	// the given extensions can be chosen; no extensions allows any file. It
	// returns "" when the dialog is cancelled.
	SelectFile(ctx context.Context, prompt, dir string, exts []string) (string, error)
}

// Notifier shows an informational message to the user.
type Notifier interface {
	Notify(title, message string)
}
