package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fquilmes/coma2punto/textnorm"
)

var normalizeOutput string

var normalizeCmd = &cobra.Command{
	Use:   "normalize <file>",
	Short: "Replace decimal commas with decimal points in a text file",
	Long: `Writes a copy of the file with every ',' replaced by '.'.
The copy is named <name>_modificado<ext> next to the original unless -o is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalize,
}

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeOutput, "output", "o", "", "output path")
	rootCmd.AddCommand(normalizeCmd)
}

// modifiedPath returns "<name>_modificado<ext>" next to path.
func modifiedPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_modificado" + ext
}

func runNormalize(cmd *cobra.Command, args []string) error {
	src := args[0]
	dst := normalizeOutput
	if dst == "" {
		dst = modifiedPath(src)
	}
	if err := textnorm.NormalizeFile(src, dst); err != nil {
		return err
	}
	logger.LogFileEvent("normalized", src)
	cmd.Printf("Archivo modificado guardado como: %s\n", dst)
	return nil
}
