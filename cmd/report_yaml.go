package cmd

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// yamlReport is the run summary written with --report: one entry per router
// plus success and failure counts.
type yamlReport struct {
	RunID     string           `yaml:"run_id"`
	Generated string           `yaml:"generated"`
	Succeeded int              `yaml:"succeeded"`
	Failed    int              `yaml:"failed"`
	Hosts     []yamlHostResult `yaml:"hosts"`
}

// yamlHostResult records the outcome of a single router backup.
type yamlHostResult struct {
	Address   string `yaml:"address"`
	Identity  string `yaml:"identity,omitempty"`
	Backup    string `yaml:"backup,omitempty"`
	File      string `yaml:"file,omitempty"`
	Bytes     int64  `yaml:"bytes,omitempty"`
	Status    string `yaml:"status"`
	ErrorKind string `yaml:"error_kind,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

func newYAMLReport(now time.Time) *yamlReport {
	return &yamlReport{
		RunID:     uuid.NewString(),
		Generated: now.Format(time.RFC3339),
		Hosts:     []yamlHostResult{},
	}
}

// addResult appends res and updates the counters.
func (r *yamlReport) addResult(res hostResult) {
	entry := yamlHostResult{
		Address:  res.Address,
		Identity: res.Identity,
		Backup:   res.BackupName,
		File:     res.LocalPath,
		Bytes:    res.Bytes,
		Status:   string(res.Status),
	}
	if res.Err != nil {
		entry.Status = string(statusFailed)
		entry.ErrorKind = errorKind(res.Err)
		entry.Error = res.Err.Error()
		r.Failed++
	} else {
		r.Succeeded++
	}
	r.Hosts = append(r.Hosts, entry)
}

// writeYAMLReport serializes the report to YAML with indentation and writes to
// the provided writer in a buffered manner for efficiency.
func writeYAMLReport(w io.Writer, r *yamlReport) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		_ = enc.Close()
		return err
	}
	_ = enc.Close()
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(buf.Bytes()); err != nil {
		return err
	}
	return bw.Flush()
}
