package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fquilmes/coma2punto/dicom"
	"github.com/fquilmes/coma2punto/rtplan"
)

var planToleranceOutput string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect and edit RT plans",
}

var planInfoCmd = &cobra.Command{
	Use:   "info <plan.dcm>",
	Short: "Print the label, beam count and sequence sizes of a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanInfo,
}

var planToleranceCmd = &cobra.Command{
	Use:   "tolerance <plan.dcm>",
	Short: "Apply the QA tolerance table to every beam of a plan",
	Long: `Rewrites the first tolerance table as table 3 "T_QA" and points every
beam at it. The plan is modified in place unless -o is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlanTolerance,
}

func init() {
	planToleranceCmd.Flags().StringVarP(&planToleranceOutput, "output", "o", "", "output path")
	planCmd.AddCommand(planInfoCmd, planToleranceCmd)
	rootCmd.AddCommand(planCmd)
}

// planSequences are the sequences reported by "plan info", in output order.
var planSequences = []dicom.Tag{
	dicom.TagDoseReferenceSequence,
	dicom.TagToleranceTableSequence,
	dicom.TagFractionGroupSequence,
	dicom.TagBeamSequence,
	dicom.TagPatientSetupSequence,
	dicom.TagReferencedStructureSetSequence,
}

func readPlan(path string) (*dicom.DataSet, error) {
	return dicom.ReadDataSetFromFile(path, dicom.ReadOptions{DropPixelData: true})
}

func runPlanInfo(cmd *cobra.Command, args []string) error {
	ds, err := readPlan(args[0])
	if err != nil {
		return err
	}
	if label, err := rtplan.GetString(ds, dicom.TagRTPlanLabel); err == nil {
		cmd.Printf("RTPlanLabel: %s\n", label)
	}
	n, err := rtplan.BeamCount(ds)
	switch {
	case err == nil:
		cmd.Printf("Treatment beams: %d\n", n)
	case errors.Is(err, rtplan.ErrMissingField):
		cmd.Println("Treatment beams: -")
	default:
		return err
	}
	for _, tag := range planSequences {
		items, ok := rtplan.LookupSequence(ds, tag)
		if !ok {
			continue
		}
		cmd.Printf("%s: %d items\n", dicom.MustFindTag(tag).Name, len(items))
	}
	return nil
}

func runPlanTolerance(cmd *cobra.Command, args []string) error {
	src := args[0]
	ds, err := dicom.ReadDataSetFromFile(src, dicom.ReadOptions{})
	if err != nil {
		return err
	}
	if err := rtplan.ApplyQAToleranceProfile(ds); err != nil {
		return fmt.Errorf("%s: %w", src, err)
	}

	dst := planToleranceOutput
	if dst != "" {
		if err := dicom.WriteDataSetToFile(dst, ds); err != nil {
			return err
		}
	} else {
		dst = src
		if err := replaceFile(src, ds); err != nil {
			return err
		}
	}
	logger.LogFileEvent("tolerance applied", src, zap.String("output", dst))
	cmd.Printf("Tabla de tolerancia %s aplicada: %s\n", rtplan.QAToleranceProfile.Label, dst)
	return nil
}

// replaceFile writes ds to a temporary file next to path and renames it over
// path, so a failed write leaves the original intact.
func replaceFile(path string, ds *dicom.DataSet) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".coma2punto-*.dcm")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	if err := dicom.WriteDataSetToFile(tmp, ds); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	return nil
}
