package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fquilmes/coma2punto/dicom"
	"github.com/fquilmes/coma2punto/dicom/dicomio"
	"github.com/fquilmes/coma2punto/rtplan"
)

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, normalizeOutput, annexPayload, planToleranceOutput = "", "", "", ""
	dumpPixelData = false

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(append([]string{"--config", quietConfig(t)}, args...))
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func quietConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "coma2punto.yaml")
	body := "profiler:\n  share_dir: " + dir + "\n" +
		"annex:\n  payload_path: " + filepath.Join(dir, "annex.bin") + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePlan(t *testing.T) string {
	t.Helper()
	ds := &dicom.DataSet{}
	for _, elem := range []*dicom.Element{
		dicom.MustNewElement(dicom.TagMediaStorageSOPClassUID, "1.2.840.10008.5.1.4.1.1.481.5"),
		dicom.MustNewElement(dicom.TagMediaStorageSOPInstanceUID, "1.2.3.4"),
		dicom.MustNewElement(dicom.TagTransferSyntaxUID, dicomio.ExplicitVRLittleEndian),
		dicom.MustNewElement(dicom.TagSOPInstanceUID, "1.2.3.4"),
		dicom.MustNewElement(dicom.TagRTPlanLabel, "PROSTATA"),
		dicom.MustNewElement(dicom.TagToleranceTableSequence, dicom.NewItem(
			dicom.MustNewElement(dicom.TagToleranceTableNumber, "1"),
			dicom.MustNewElement(dicom.TagToleranceTableLabel, "T1"),
		)),
		dicom.MustNewElement(dicom.TagBeamSequence,
			dicom.NewItem(
				dicom.MustNewElement(dicom.TagBeamNumber, "1"),
				dicom.MustNewElement(dicom.TagTreatmentDeliveryType, "TREATMENT"),
			),
			dicom.NewItem(
				dicom.MustNewElement(dicom.TagBeamNumber, "2"),
				dicom.MustNewElement(dicom.TagTreatmentDeliveryType, "SETUP"),
			),
		),
		dicom.MustNewElement(dicom.TagApprovalStatus, "APPROVED"),
	} {
		ds.SetElement(elem)
	}
	path := filepath.Join(t.TempDir(), "plan.dcm")
	require.NoError(t, dicom.WriteDataSetToFile(path, ds))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "coma2punto version dev\n", out)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	path := writeFile(t, "bad.yaml", "logging:\n  format: xml\n")
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--config", path, "version"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
	assert.NotContains(t, buf.String(), "coma2punto version")
}

func TestNormalizeCommand(t *testing.T) {
	src := writeFile(t, "PDD.txt", "1,5;2,25\n")
	out, err := execute(t, "normalize", src)
	require.NoError(t, err)

	dst := filepath.Join(filepath.Dir(src), "PDD_modificado.txt")
	assert.Contains(t, out, dst)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "1.5;2.25\n", string(data))

	explicit := filepath.Join(t.TempDir(), "out.txt")
	_, err = execute(t, "normalize", src, "-o", explicit)
	require.NoError(t, err)
	assert.FileExists(t, explicit)
}

func TestNormalizeCommandMissingFile(t *testing.T) {
	_, err := execute(t, "normalize", filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestModifiedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b_modificado.txt"), modifiedPath(filepath.Join("a", "b.txt")))
	assert.Equal(t, "noext_modificado", modifiedPath("noext"))
}

func TestAnnexCommand(t *testing.T) {
	plan := writePlan(t)
	payload := writeFile(t, "annex.bin", "PRIVATE")

	out, err := execute(t, "annex", plan, "--payload", payload)
	require.NoError(t, err)

	want := strings.TrimSuffix(plan, ".dcm") + "_private.dcm"
	assert.Equal(t, want+"\n", out)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("PRIVATE")))
	assert.False(t, bytes.Contains(data, []byte("APPROVED")))
}

func TestAnnexCommandMissingPayload(t *testing.T) {
	// The configured payload does not exist.
	_, err := execute(t, "annex", writePlan(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlanInfoCommand(t *testing.T) {
	out, err := execute(t, "plan", "info", writePlan(t))
	require.NoError(t, err)
	assert.Equal(t, "RTPlanLabel: PROSTATA\n"+
		"Treatment beams: 1\n"+
		"ToleranceTableSequence: 1 items\n"+
		"BeamSequence: 2 items\n", out)
}

func TestPlanToleranceCommandInPlace(t *testing.T) {
	plan := writePlan(t)
	out, err := execute(t, "plan", "tolerance", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "T_QA")

	ds, err := dicom.ReadDataSetFromFile(plan, dicom.ReadOptions{})
	require.NoError(t, err)
	tables, err := rtplan.ToleranceTables(ds)
	require.NoError(t, err)
	label, ok := tables[0].FindChild(dicom.TagToleranceTableLabel)
	require.True(t, ok)
	assert.Equal(t, "T_QA", label.MustGetString())

	beams, err := rtplan.Beams(ds)
	require.NoError(t, err)
	for _, b := range beams {
		ref, ok := b.FindChild(dicom.TagReferencedToleranceTableNumber)
		require.True(t, ok)
		assert.Equal(t, "3", ref.MustGetString())
	}

	// No temporary files are left behind.
	entries, err := os.ReadDir(filepath.Dir(plan))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPlanToleranceCommandOutput(t *testing.T) {
	plan := writePlan(t)
	before, err := os.ReadFile(plan)
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "qa.dcm")
	_, err = execute(t, "plan", "tolerance", plan, "-o", dst)
	require.NoError(t, err)
	assert.FileExists(t, dst)

	after, err := os.ReadFile(plan)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPlanToleranceCommandBrokenFile(t *testing.T) {
	_, err := execute(t, "plan", "tolerance", writeFile(t, "x.dcm", "not dicom"))
	assert.ErrorIs(t, err, dicom.ErrBrokenFile)
}

func TestDumpCommand(t *testing.T) {
	out, err := execute(t, "dump", writePlan(t))
	require.NoError(t, err)
	assert.Contains(t, out, "PROSTATA")
	assert.Contains(t, out, "BeamSequence")
}
