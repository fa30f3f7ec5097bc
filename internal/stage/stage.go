package stage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Artifact describes one of the pipeline's intermediate files: utf-8
// csv with a leading version line. a stage refuses input whose name
// or version does not match what it expects, a stale or foreign file
// becomes a descriptive error instead of silent garbage.
type Artifact[T any] struct {
	Name    string
	Version int
	Columns []string
	Encode  func(T) []string
	Decode  func([]string) (T, error)
}

func (a Artifact[T]) Filename() string {
	return a.Name + ".csv"
}

func (a Artifact[T]) Path(workDir string) string {
	return filepath.Join(workDir, a.Filename())
}

func (a Artifact[T]) versionLine() string {
	return fmt.Sprintf("#wtml:%s:v%d", a.Name, a.Version)
}

// Write lands the artifact atomically. stages trust whatever file
// sits at the path, so a crashed run must never leave half an
// artifact behind.
func (a Artifact[T]) Write(path string, records []T) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), a.Filename()+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	err = a.write(tmp, records)
	if err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (a Artifact[T]) write(w io.Writer, records []T) error {
	_, err := fmt.Fprintln(w, a.versionLine())
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	err = writer.Write(a.Columns)
	if err != nil {
		return err
	}
	for _, record := range records {
		err = writer.Write(a.Encode(record))
		if err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (a Artifact[T]) Read(path string) ([]T, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	version, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	version = strings.TrimRight(version, "\r\n")
	if version != a.versionLine() {
		return nil, fmt.Errorf(
			"%s is not a current %s artifact (found %q, want %q), re-run the stage that produces it",
			path, a.Name, version, a.versionLine(),
		)
	}

	csvReader := csv.NewReader(reader)
	columns, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !slices.Equal(columns, a.Columns) {
		return nil, fmt.Errorf("%s has unexpected columns %v", path, columns)
	}

	var records []T
	row := 1
	for {
		fields, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		row++
		record, err := a.Decode(fields)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// Info summarizes an artifact on disk for status reporting.
type Info struct {
	Name    string
	Version int
	Path    string
	Exists  bool
	Records int
	ModTime time.Time
	ReadErr error
}

func (a Artifact[T]) Inspect(workDir string) Info {
	path := a.Path(workDir)
	info := Info{Name: a.Name, Version: a.Version, Path: path}

	stat, err := os.Stat(path)
	if err != nil {
		return info
	}
	info.Exists = true
	info.ModTime = stat.ModTime()

	records, err := a.Read(path)
	if err != nil {
		info.ReadErr = err
		return info
	}
	info.Records = len(records)
	return info
}
