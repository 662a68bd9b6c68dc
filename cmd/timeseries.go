package cmd

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/inference-sim/line-sim/sim/line"
)

var seriesFileReplacer = strings.NewReplacer("/", "_", "->", "_to_", " ", "_")

// seriesFileName maps a series key such as "M1/processed" to a file name.
func seriesFileName(rep int, key string) string {
	return fmt.Sprintf("rep%d_%s.csv", rep, seriesFileReplacer.Replace(key))
}

// saveSeries writes one CSV file per series of replication rep into dir and
// returns the paths written, in key order.
func saveSeries(dir string, rep int, series map[string][]line.Sample) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating time-series directory %s: %w", dir, err)
	}
	keys := make([]string, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	paths := make([]string, 0, len(keys))
	for _, k := range keys {
		path := filepath.Join(dir, seriesFileName(rep, k))
		if err := saveSamples(path, series[k]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func saveSamples(fileName string, samples []line.Sample) (err error) {
	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", fileName, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing file %s: %w", fileName, closeErr)
		}
	}()

	buf := bufio.NewWriter(file)
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"time", "value"}); err != nil {
		return fmt.Errorf("writing header to %s: %w", fileName, err)
	}
	for _, s := range samples {
		row := []string{strconv.FormatFloat(s.Time, 'f', -1, 64), strconv.FormatFloat(s.Value, 'f', -1, 64)}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing sample to %s: %w", fileName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", fileName, err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", fileName, err)
	}

	logrus.Debugf("Successfully wrote %d samples to '%s'", len(samples), fileName)
	return nil
}
