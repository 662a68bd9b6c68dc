package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/line-sim/sim/experiment"
)

// defaultsFilePath is read when --config is not given.
const defaultsFilePath = "defaults.yaml"

// parseExperimentConfig decodes a YAML experiment. Unknown keys are errors,
// so a misspelled field never silently falls back to a default.
func parseExperimentConfig(data []byte) (experiment.Config, error) {
	var cfg experiment.Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return experiment.Config{}, fmt.Errorf("parsing experiment config: %w", err)
	}
	return cfg, nil
}

// loadExperimentConfig reads the experiment from path. When path is the
// implicit defaults file and it does not exist, the built-in reference line
// is used instead.
func loadExperimentConfig(path string, explicit bool) (experiment.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			logrus.Warnf("%s not found; using the built-in reference line", path)
			return experiment.DefaultConfig(), nil
		}
		return experiment.Config{}, fmt.Errorf("reading experiment config: %w", err)
	}
	return parseExperimentConfig(data)
}
