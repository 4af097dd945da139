package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/tessa/internal/screening"
)

// WriteFile stores result at path. A .json extension selects JSON, anything
// else gets the markdown report.
func WriteFile(path string, result *screening.BatchResult, now time.Time) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report %q: %w", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		enc := json.NewEncoder(file)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return file.Close()
	}

	if _, err := file.WriteString(Markdown(result, now)); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}

	return file.Close()
}

// DumpToTmpFile writes result as JSON into a new temporary file and returns its name.
func DumpToTmpFile(result *screening.BatchResult) (string, error) {
	file, err := os.CreateTemp("", "screening_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", err
	}
	return file.Name(), nil
}
