package batch

import (
	"fmt"
	"io"
)

// WriteExport renders the plain-text batch export file: a class/record-type
// header, a generation timestamp, then one block per successful student.
// Failed students are omitted from the file; the on-screen summary still
// counts them.
func WriteExport(w io.Writer, run *Run) error {
	if _, err := fmt.Fprintf(w, "[%s %s]\n", run.ClassName, run.RecordType.Label()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "생성일시: %s\n\n", run.FinishedAt.Format("2006-01-02 15:04")); err != nil {
		return err
	}
	for _, result := range run.Results {
		if result.Status != StatusSuccess {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%s]\n%s\n\n---\n\n", result.Student, result.Content); err != nil {
			return err
		}
	}
	return nil
}
