// Package report persists run reports as JSON files.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/cleanbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ReportStore using flat JSON files.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Put stamps the report with its plan fingerprint and writes it to path.
func (s *Store) Put(path string, report *domain.Report) error {
	path = filepath.Clean(path)
	report.Fingerprint = Fingerprint(report)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrReportMarshalFailed.Error())
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "path", path)
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrReportWriteFailed.Error()), "path", path)
	}

	return nil
}

// Fingerprint hashes the planned phases of a report.
// Two runs of the same plan share a fingerprint regardless of their outcome.
func Fingerprint(report *domain.Report) string {
	h := xxhash.New()
	_, _ = h.WriteString(report.Root)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(report.BuildDir)
	for _, p := range report.Phases {
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(p.Phase)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(p.Command)
		_, _ = h.Write([]byte{0})
		_, _ = h.WriteString(p.Dir)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
