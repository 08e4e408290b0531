package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

// LoadEnvFiles loads KEY=VALUE pairs from the given dotenv files into the process
// environment without overriding variables that are already set. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			logrus.Debugf("env file %q not found, skipping", f)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// FromFile reads the YAML config at filePath, renders it as a template over the
// process environment and expands ${VAR} references before decoding into cfg.
func FromFile(filePath string, cfg interface{}) error {
	t, err := template.New(filepath.Base(filePath)).Option("missingkey=zero").ParseFiles(filePath)
	if err != nil {
		return err
	}
	strWriter := &strings.Builder{}
	if err := t.Execute(strWriter, environMap()); err != nil {
		return err
	}

	content := os.ExpandEnv(strWriter.String())
	return yaml.Unmarshal([]byte(content), cfg)
}

func environMap() map[string]string {
	envMap := make(map[string]string)
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		if len(pair) == 2 {
			envMap[pair[0]] = pair[1]
		}
	}
	return envMap
}
