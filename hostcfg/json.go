// Package hostcfg loads vitals.Configuration from a host-supplied JSON file,
// applying only the fields present in the file on top of a caller-supplied
// base configuration.
package hostcfg

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cwbudde/algo-radar-vitals/vitals"
)

// File is the JSON schema for a vitals configuration override file. Every
// field is a pointer so that absence (vs. an explicit zero value) is
// distinguishable: a pointer-field partial-override schema applied on top
// of a base configuration.
type File struct {
	Enabled            *bool    `json:"enabled"`
	TrackerIntegration *bool    `json:"tracker_integration"`
	TargetID           *int     `json:"target_id"`
	RangeBinStart      *int     `json:"range_bin_start"`
	NumRangeBins       *int     `json:"num_range_bins"`
	RangeResolution    *float32 `json:"range_resolution"`
}

// LoadJSON reads a configuration override file and applies it on top of
// vitals.DefaultConfiguration.
func LoadJSON(path string) (vitals.Configuration, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return vitals.Configuration{}, err
	}

	var f File
	if err := json.Unmarshal(b, &f); err != nil {
		return vitals.Configuration{}, fmt.Errorf("hostcfg: parsing %s: %w", path, err)
	}

	cfg := vitals.DefaultConfiguration()
	if err := ApplyFile(&cfg, &f); err != nil {
		return vitals.Configuration{}, err
	}
	return cfg, nil
}

// ApplyFile applies the fields present in f onto dst, validating each one as
// it is applied.
func ApplyFile(dst *vitals.Configuration, f *File) error {
	if dst == nil {
		return fmt.Errorf("hostcfg: nil destination configuration")
	}
	if f == nil {
		return nil
	}

	if f.Enabled != nil {
		dst.Enabled = *f.Enabled
	}
	if f.TrackerIntegration != nil {
		dst.TrackerIntegration = *f.TrackerIntegration
	}
	if f.TargetID != nil {
		dst.TargetID = *f.TargetID
	}
	if f.RangeBinStart != nil {
		dst.RangeBinStart = *f.RangeBinStart
	}
	if f.NumRangeBins != nil {
		dst.NumRangeBins = *f.NumRangeBins
	}
	if f.RangeResolution != nil {
		dst.RangeResolution = *f.RangeResolution
	}

	return dst.Validate()
}
