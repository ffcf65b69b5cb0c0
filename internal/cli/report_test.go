package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/errors"
	"github.com/matzehuels/feluda/pkg/licenses"
	"github.com/matzehuels/feluda/pkg/scan"
)

func sampleResult() *scan.Result {
	records := []scan.Record{
		{Name: "serde", Version: "1.0.200", Ecosystem: deps.Rust, License: licenses.Info{
			Raw: []string{"MIT OR Apache-2.0"}, SPDX: "MIT OR Apache-2.0", OSI: licenses.OSIApproved,
			Compatibility: licenses.Compatible, Source: licenses.SourceLocal,
		}},
		{Name: "readline", Version: "8.2", Ecosystem: deps.Cpp, Depth: 1, License: licenses.Info{
			SPDX: "GPL-3.0", OSI: licenses.OSIApproved, Restrictive: true,
			Compatibility: licenses.Incompatible, Source: licenses.SourceRepository,
		}},
		{Name: "libfoo", Version: "0.1.0", Ecosystem: deps.Node, License: licenses.Info{
			Raw: []string{"SEE LICENSE IN LICENSE"}, Restrictive: true, Source: licenses.SourceRegistry,
		}},
		{Name: "mystery", Version: "", Ecosystem: deps.Python, License: licenses.Info{Source: licenses.SourceUnknown}},
	}
	return &scan.Result{
		Root:           "/src/app",
		ProjectLicense: "MIT",
		Records:        records,
		Summary:        scan.Summarize(records),
		Warnings:       []string{"python: requirements.txt: 1 dependency without a pinned version"},
	}
}

func TestFilterRecords(t *testing.T) {
	records := sampleResult().Records

	tests := []struct {
		name                      string
		restrictive, incompatible bool
		want                      []string
	}{
		{"none", false, false, []string{"serde", "readline", "libfoo", "mystery"}},
		{"restrictive", true, false, []string{"readline", "libfoo"}},
		{"incompatible", false, true, []string{"readline"}},
		{"both", true, true, []string{"readline", "libfoo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterRecords(records, tt.restrictive, tt.incompatible)
			var names []string
			for _, r := range got {
				names = append(names, r.Name)
			}
			if strings.Join(names, ",") != strings.Join(tt.want, ",") {
				t.Errorf("filterRecords() = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestWriteReportJSON(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	if err := writeReport(&buf, res, filterRecords(res.Records, false, true), formatJSON); err != nil {
		t.Fatal(err)
	}

	var got struct {
		ProjectLicense string `json:"project_license"`
		Dependencies   []struct {
			Name    string `json:"name"`
			License struct {
				SPDX          string `json:"spdx"`
				Compatibility string `json:"compatibility"`
				OSI           string `json:"osi"`
			} `json:"license"`
		} `json:"dependencies"`
		Summary struct {
			Total        int `json:"total"`
			Incompatible int `json:"incompatible"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.ProjectLicense != "MIT" {
		t.Errorf("project_license = %q", got.ProjectLicense)
	}
	if len(got.Dependencies) != 1 || got.Dependencies[0].Name != "readline" {
		t.Fatalf("dependencies = %+v, want only readline", got.Dependencies)
	}
	if d := got.Dependencies[0].License; d.Compatibility != "incompatible" || d.OSI != "approved" {
		t.Errorf("license = %+v", d)
	}
	// The summary always describes the whole scan.
	if got.Summary.Total != 4 || got.Summary.Incompatible != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if res.Records[0].Name != "serde" || len(res.Records) != 4 {
		t.Error("writeReport modified the result")
	}
}

func TestWriteReportYAML(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	if err := writeReport(&buf, res, res.Records, formatYAML); err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	list, ok := got["dependencies"].([]any)
	if !ok || len(list) != 4 {
		t.Fatalf("dependencies = %v", got["dependencies"])
	}
	if !strings.Contains(buf.String(), "compatibility: incompatible") {
		t.Errorf("verdicts should render as text:\n%s", buf.String())
	}
}

func TestWriteReportEmptyJSON(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	if err := writeReport(&buf, res, nil, formatJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"dependencies": []`) {
		t.Errorf("empty selection should encode as an empty list:\n%s", buf.String())
	}
}

func TestWriteReportTable(t *testing.T) {
	res := sampleResult()
	var buf bytes.Buffer
	if err := writeReport(&buf, res, res.Records, formatTable); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"serde", "readline", "GPL-3.0", "SEE LICENSE IN LICENSE", "Unknown", "incompatible", "dependencies", res.Warnings[0]} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestWriteReportUnknownFormat(t *testing.T) {
	res := sampleResult()
	err := writeReport(&bytes.Buffer{}, res, res.Records, "xml")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestTopLicenses(t *testing.T) {
	got := topLicenses(map[string]int{"MIT": 3, "Apache-2.0": 3, "GPL-3.0": 1, "BSD-3-Clause": 5})
	want := []string{"BSD-3-Clause", "Apache-2.0", "MIT", "GPL-3.0"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("topLicenses() = %v, want %v", got, want)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		info licenses.Info
		want string
	}{
		{licenses.Info{SPDX: "MIT", Compatibility: licenses.Compatible}, "ok"},
		{licenses.Info{SPDX: "GPL-3.0", Restrictive: true}, "restrictive"},
		{licenses.Info{SPDX: "GPL-3.0", Restrictive: true, Compatibility: licenses.Incompatible}, "incompatible"},
		{licenses.Info{}, "unknown"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.info); got != tt.want {
			t.Errorf("statusLabel(%+v) = %q, want %q", tt.info, got, tt.want)
		}
	}
}
