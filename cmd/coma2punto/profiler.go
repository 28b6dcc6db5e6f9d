package main

import (
	"github.com/spf13/cobra"

	"github.com/fquilmes/coma2punto/internal/profiler"
	"github.com/fquilmes/coma2punto/internal/prompt"
)

var profilerCmd = &cobra.Command{
	Use:   "profiler",
	Short: "Convert profiler exports interactively",
	Long: `Asks for the machines, the options of each machine and one export file
per option. Each file is copied to the shared folder with decimal points and
the original is moved to the machine's archive folder.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tui := prompt.NewTUI(cmd.InOrStdin(), cmd.OutOrStdout())
		w := &profiler.Workflow{
			Config:   cfg.Profiler,
			Prompter: tui,
			Notifier: tui,
			Logger:   logger,
		}
		results, err := w.Run(cmd.Context())
		if err != nil {
			return err
		}
		cmd.Printf("%d archivos procesados\n", len(results))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profilerCmd)
}
