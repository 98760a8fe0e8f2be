package migrate

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const migrationFileExt = ".edgeql"

// MigrationsDir returns the directory holding committed migration scripts
// for a schema directory.
func MigrationsDir(schemaDir string) string {
	return filepath.Join(schemaDir, "migrations")
}

func migrationFilePath(schemaDir string, index uint64) string {
	name := fmt.Sprintf("%05d%s", index, migrationFileExt)
	return filepath.Join(MigrationsDir(schemaDir), name)
}

// LocalMigration is one migration script already committed to the
// filesystem.
type LocalMigration struct {
	Filename string
	ID       string
	Parent   string
}

var regexNum = regexp.MustCompile(`^\d+`)

// ReadDir collects migration file infos from dir. A missing directory is an
// empty history, not an error.
func ReadDir(dir string) ([]os.FileInfo, error) {
	files := []os.FileInfo{}
	tmp, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return files, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read migrations dir %s", dir)
	}
	for _, fi := range tmp {
		// Skip directories and hidden files, which includes the temp
		// files a crashed writer may have left behind
		if fi.IsDir() || strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		if filepath.Ext(fi.Name()) != migrationFileExt {
			continue
		}
		files = append(files, fi)
	}
	return files, nil
}

// Sort orders migration files by their numeric prefix, ensuring that
// something like 2.edgeql, 10.edgeql sorts numerically rather than
// lexically.
func Sort(files []os.FileInfo) error {
	var nameErr error
	sort.Slice(files, func(i, j int) bool {
		if nameErr != nil {
			return false
		}
		fiName1 := regexNum.FindString(files[i].Name())
		fiName2 := regexNum.FindString(files[j].Name())
		fiNum1, err := strconv.ParseUint(fiName1, 10, 64)
		if err != nil {
			nameErr = errors.Wrapf(err, "parse uint in file %s", files[i].Name())
			return false
		}
		fiNum2, err := strconv.ParseUint(fiName2, 10, 64)
		if err != nil {
			nameErr = errors.Wrapf(err, "parse uint in file %s", files[j].Name())
			return false
		}
		if fiNum1 == fiNum2 {
			nameErr = errors.Errorf("cannot have duplicate migration number: %d", fiNum1)
			return false
		}
		return fiNum1 < fiNum2
	})
	return nameErr
}

// parseMigrationFile recovers the migration id and parent from a committed
// script's header lines.
func parseMigrationFile(path string) (id, parent string, err error) {
	byt, err := ioutil.ReadFile(path)
	if err != nil {
		return "", "", errors.Wrapf(err, "read migration file %s", path)
	}
	lines := strings.SplitN(string(byt), "\n", 3)
	if len(lines) < 2 {
		return "", "", errors.Errorf("malformed migration file %s", path)
	}
	ontoLine := strings.TrimSpace(lines[1])
	if !strings.HasPrefix(lines[0], "CREATE MIGRATION ") ||
		!strings.HasPrefix(ontoLine, "ONTO ") {
		return "", "", errors.Errorf("malformed migration file %s", path)
	}
	id = strings.TrimSpace(strings.TrimPrefix(lines[0], "CREATE MIGRATION "))
	parent = strings.TrimSpace(strings.TrimPrefix(ontoLine, "ONTO "))
	return id, parent, nil
}

// ReadLocal reads the on-disk migration history under schemaDir in sequence
// order.
func ReadLocal(schemaDir string) ([]LocalMigration, error) {
	dir := MigrationsDir(schemaDir)
	files, err := ReadDir(dir)
	if err != nil {
		return nil, err
	}
	if err := Sort(files); err != nil {
		return nil, err
	}
	local := make([]LocalMigration, 0, len(files))
	for _, fi := range files {
		id, parent, err := parseMigrationFile(filepath.Join(dir, fi.Name()))
		if err != nil {
			return nil, err
		}
		local = append(local, LocalMigration{
			Filename: fi.Name(),
			ID:       id,
			Parent:   parent,
		})
	}
	return local, nil
}
