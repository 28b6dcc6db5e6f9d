package main

import (
	"github.com/spf13/cobra"

	"github.com/fquilmes/coma2punto/dicom"
)

var dumpPixelData bool

var dumpCmd = &cobra.Command{
	Use:   "dump <file.dcm>",
	Short: "Print the elements of a DICOM file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dicom.ReadDataSetFromFile(args[0], dicom.ReadOptions{DropPixelData: !dumpPixelData})
		if err != nil {
			return err
		}
		for _, elem := range ds.Elements {
			cmd.Print(elem.String())
		}
		return nil
	},
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpPixelData, "pixel-data", false, "also read PixelData")
	rootCmd.AddCommand(dumpCmd)
}
