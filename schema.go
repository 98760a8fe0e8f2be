package migrate

import (
	"io/ioutil"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const schemaFileExt = ".esdl"

// readSchemaFile reads one schema file and verifies it is a sequence of
// complete semicolon-terminated statements. After the last complete
// statement only a blank remainder is permitted.
func readSchemaFile(path string) (string, error) {
	byt, err := ioutil.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read schema file %s", path)
	}
	offset := 0
	for {
		n, ok := FullStatement(byt[offset:])
		if !ok {
			break
		}
		offset += n
	}
	if !IsBlank(string(byt[offset:])) {
		return "", errors.Errorf(
			"schema file %s: final statement does not end with a semicolon",
			path)
	}
	return string(byt), nil
}

// GenStartMigration aggregates every schema file under schemaDir into one
// START MIGRATION block, with a source map pointing each output line back
// at its file. Hidden files, non-regular entries, and files without the
// .esdl suffix are skipped. Files are read in sorted name order so the
// aggregated text is reproducible across platforms.
func GenStartMigration(schemaDir string) (string, *SourceMap, error) {
	infos, err := ioutil.ReadDir(schemaDir)
	if err != nil {
		return "", nil, errors.Wrapf(err, "read schema dir %s", schemaDir)
	}
	names := []string{}
	for _, fi := range infos {
		if !fi.Mode().IsRegular() || strings.HasPrefix(fi.Name(), ".") {
			continue
		}
		if filepath.Ext(fi.Name()) != schemaFileExt {
			continue
		}
		names = append(names, fi.Name())
	}
	sort.Strings(names)

	bld := NewBuilder()
	bld.AddLines(SourceName{Kind: SourcePrefix}, "START MIGRATION TO {")
	for _, name := range names {
		path := filepath.Join(schemaDir, name)
		chunk, err := readSchemaFile(path)
		if err != nil {
			return "", nil, err
		}
		bld.AddLines(SourceName{Kind: SourceFile, Path: path}, chunk)
	}
	bld.AddLines(SourceName{Kind: SourceSuffix}, "};")
	text, srcmap := bld.Done()
	return text, srcmap, nil
}
