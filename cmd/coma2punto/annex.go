package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fquilmes/coma2punto/annex"
)

var annexPayload string

var annexCmd = &cobra.Command{
	Use:   "annex <plan.dcm>",
	Short: "Append the private annex to an approved plan",
	Long: `Truncates the plan at the last "APPROVED" marker and appends the annex
payload. The result is written next to the plan, with the last 4 characters
of the name replaced by the configured suffix (default _private.dcm).`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnex,
}

func init() {
	annexCmd.Flags().StringVar(&annexPayload, "payload", "", "annex payload file (overrides annex.payload_path)")
	rootCmd.AddCommand(annexCmd)
}

func runAnnex(cmd *cobra.Command, args []string) error {
	s := annex.Splicer{
		PayloadPath: cfg.Annex.PayloadPath,
		Suffix:      cfg.Annex.Suffix,
	}
	if annexPayload != "" {
		s.PayloadPath = annexPayload
	}
	out, err := s.SpliceFile(args[0])
	if err != nil {
		return err
	}
	logger.LogFileEvent("annexed", args[0], zap.String("output", out), zap.String("payload", s.PayloadPath))
	cmd.Println(out)
	return nil
}
