package prompt

import (
	"context"
	"fmt"
)

// Notice is a notification recorded by Scripted.
type Notice struct {
	Title   string
	Message string
}

// Scripted answers dialogs from queued responses. It is used for
// non-interactive runs.
type Scripted struct {
	// Selections answers SelectMultiple calls in order. A nil entry
	// cancels the dialog.
	Selections [][]string
	// Files answers SelectFile calls in order. "" cancels the dialog.
	Files []string

	// Prompts records every prompt shown, and Dirs the starting
	// directory of every file dialog.
	Prompts []string
	Dirs    []string
	Notices []Notice
}

// SelectMultiple implements Prompter.
func (s *Scripted) SelectMultiple(ctx context.Context, prompt string, options []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.Prompts = append(s.Prompts, prompt)
	if len(s.Selections) == 0 {
		return nil, fmt.Errorf("no scripted answer for %q", prompt)
	}
	answer := s.Selections[0]
	s.Selections = s.Selections[1:]
	valid := make(map[string]bool, len(options))
	for _, o := range options {
		valid[o] = true
	}
	for _, a := range answer {
		if !valid[a] {
			return nil, fmt.Errorf("scripted answer %q is not an option of %q", a, prompt)
		}
	}
	if len(answer) == 0 {
		return nil, nil
	}
	return answer, nil
}

// SelectFile implements Prompter.
func (s *Scripted) SelectFile(ctx context.Context, prompt, dir string, exts []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.Prompts = append(s.Prompts, prompt)
	s.Dirs = append(s.Dirs, dir)
	if len(s.Files) == 0 {
		return "", fmt.Errorf("no scripted answer for %q", prompt)
	}
	answer := s.Files[0]
	s.Files = s.Files[1:]
	return answer, nil
}

// Notify implements Notifier.
func (s *Scripted) Notify(title, message string) {
	s.Notices = append(s.Notices, Notice{Title: title, Message: message})
}
