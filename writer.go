package migrate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WriteMigration serializes the confirmed statements of descr as migration
// script number index under schemaDir, computing the new migration's
// content-addressed id from parent and the statements. The script is
// written to a sibling temp file and renamed into place, so a reader never
// observes a partially written migration: the final path either does not
// exist, holds the previous complete content, or holds the new complete
// content.
func WriteMigration(schemaDir string, index uint64, descr *CurrentMigration, parent string) error {
	fpath := migrationFilePath(schemaDir, index)
	if err := writeMigrationFile(descr, parent, fpath); err != nil {
		return errors.Wrapf(err, "write migration file %s", fpath)
	}
	return nil
}

func writeMigrationFile(descr *CurrentMigration, parent, fpath string) error {
	statements := make([]string, 0, len(descr.Confirmed))
	for _, s := range descr.Confirmed {
		statements = append(statements, s+";")
	}
	hasher := NewHasher(parent)
	for _, statement := range statements {
		if err := hasher.Source(statement); err != nil {
			return err
		}
	}
	id := hasher.MakeID()

	dir := filepath.Dir(fpath)
	tmpFile := filepath.Join(dir, fmt.Sprintf(".~%s.tmp", filepath.Base(fpath)))
	if _, err := os.Stat(fpath); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create dir %s", dir)
		}
	}
	// A stale temp file from an interrupted run is not history
	os.Remove(tmpFile)
	fi, err := os.Create(tmpFile)
	if err != nil {
		return errors.Wrapf(err, "create %s", tmpFile)
	}
	w := bufio.NewWriter(fi)
	fmt.Fprintf(w, "CREATE MIGRATION %s\n", id)
	fmt.Fprintf(w, "    ONTO %s\n", parent)
	fmt.Fprintf(w, "{\n")
	for _, statement := range statements {
		// Indent each of the statement's own lines; never reflow
		for _, line := range splitLines(statement) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	fmt.Fprintf(w, "};\n")
	if err := w.Flush(); err != nil {
		fi.Close()
		return errors.Wrapf(err, "flush %s", tmpFile)
	}
	if err := fi.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmpFile)
	}
	// The rename is the commit point
	if err := os.Rename(tmpFile, fpath); err != nil {
		return errors.Wrapf(err, "rename %s", tmpFile)
	}
	return nil
}
