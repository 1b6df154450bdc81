package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"prizm-segmenter/models"
)

// reportHeader names the five customer fields in output order.
var reportHeader = []string{"StoreId", "CustomerId", "CELPostalCode", "TotalVisits", "SegmentCode"}

// totalPrefix has no space before the number; existing consumers of the
// report parse it in this exact form.
const totalPrefix = "Total no. of visits:"

// reportMode matches what os.Create yields under the usual 022 umask.
const reportMode = 0644

// ReportWriter writes a segmentation report to a single file.
type ReportWriter struct {
	path string
}

// NewReportWriter returns a writer targeting path. Nothing touches the
// filesystem until Write is called.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

// Write renders seg into a temporary file next to the target and renames it
// into place, so the target either holds the full report or is left untouched.
// Intermediate directories are created automatically.
func (w *ReportWriter) Write(seg *models.Segmentation) (err error) {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("report: create temp file in %q: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = RenderReport(tmp, seg); err != nil {
		return fmt.Errorf("report: write %q: %w", w.path, err)
	}
	if err = tmp.Chmod(reportMode); err != nil {
		return fmt.Errorf("report: chmod %q: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("report: close %q: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("report: move into %q: %w", w.path, err)
	}
	return nil
}

// RenderReport writes both bands of seg to out, separated by one blank line.
func RenderReport(out io.Writer, seg *models.Segmentation) error {
	bw := bufio.NewWriter(out)

	writeBand(bw, seg.BandA)
	bw.WriteString("\n")
	writeBand(bw, seg.BandB)

	return bw.Flush()
}

func writeBand(bw *bufio.Writer, b *models.Band) {
	header := strings.Join(reportHeader, ",")

	bw.WriteString(b.Title + "\n")
	bw.WriteString(header + "\n")
	for _, c := range b.Customers {
		bw.WriteString(customerRow(c) + "\n")
	}
	bw.WriteString(totalPrefix + strconv.Itoa(b.TotalVisits) + "\n")
}

func customerRow(c *models.Customer) string {
	return strings.Join([]string{
		strconv.Itoa(c.StoreID),
		c.CustomerID,
		c.PostalCode,
		strconv.Itoa(c.TotalVisits),
		strconv.Itoa(c.SegmentCode),
	}, ",")
}
