package sbom

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/licenses"
	"github.com/matzehuels/feluda/pkg/scan"
)

var testSerial = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

func testResult() *scan.Result {
	return &scan.Result{
		ProjectLicense: "MIT",
		Records: []scan.Record{
			{Name: "@babel/core", Version: "7.23.0", Ecosystem: deps.Node, Depth: 0,
				License: licenses.Info{SPDX: "MIT", Raw: []string{"MIT"}}},
			{Name: "golang.org/x/sync", Version: "v0.7.0", Ecosystem: deps.Go, Depth: 1,
				License: licenses.Info{SPDX: "BSD-3-Clause", Raw: []string{"BSD-3-Clause"}}},
			{Name: "mystery", Version: "^1.0.0", Ecosystem: deps.Node, Depth: 0,
				License: licenses.Info{Raw: []string{"Custom License"}}},
		},
	}
}

func testMeta() Meta {
	return Meta{
		Name:        "my app",
		Version:     "1.0.0",
		ToolVersion: "0.9.0",
		Created:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Serial:      testSerial,
	}
}

func TestPackageURL(t *testing.T) {
	tests := []struct {
		eco     deps.Ecosystem
		name    string
		version string
		want    string
	}{
		{deps.Node, "@babel/core", "7.23.0", "pkg:npm/%40babel/core@7.23.0"},
		{deps.Node, "lodash", "", "pkg:npm/lodash"},
		{deps.Go, "golang.org/x/sync", "v0.7.0", "pkg:golang/golang.org/x/sync@v0.7.0"},
		{deps.Python, "Typing_Extensions", "4.9.0", "pkg:pypi/typing-extensions@4.9.0"},
		{deps.Rust, "serde", "1.0.197", "pkg:cargo/serde@1.0.197"},
		{deps.DotNet, "Newtonsoft.Json", "13.0.3", "pkg:nuget/Newtonsoft.Json@13.0.3"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := PackageURL(tt.eco, tt.name, tt.version); got != tt.want {
				t.Errorf("PackageURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	doc := Build(testResult(), testMeta())

	if doc.Namespace != "https://spdx.org/spdxdocs/my-app-"+testSerial.String() {
		t.Errorf("Namespace = %q", doc.Namespace)
	}
	if doc.ToolName != "feluda" {
		t.Errorf("ToolName = %q", doc.ToolName)
	}
	if len(doc.Components) != 3 {
		t.Fatalf("got %d components", len(doc.Components))
	}
	mystery := doc.Components[2]
	if mystery.Version != "" || mystery.License != NoAssertion || mystery.Declared != "Custom License" {
		t.Errorf("range versions and unknown licenses: %+v", mystery)
	}
	if !doc.Components[0].Direct || doc.Components[1].Direct {
		t.Error("Direct should follow depth")
	}
}

func TestToSPDX(t *testing.T) {
	out := ToSPDX(Build(testResult(), testMeta()))

	if out.SPDXVersion != "SPDX-2.3" || out.DataLicense != "CC0-1.0" {
		t.Errorf("header: %+v", out)
	}
	if out.CreationInfo.Created != "2024-05-01T12:00:00Z" || out.CreationInfo.Creators[0] != "Tool: feluda-0.9.0" {
		t.Errorf("creation info: %+v", out.CreationInfo)
	}
	if len(out.Packages) != 4 || out.Packages[0].LicenseDeclared != "MIT" {
		t.Fatalf("packages: %+v", out.Packages)
	}
	if ref := out.Packages[1].ExternalRefs; len(ref) != 1 || ref[0].ReferenceType != "purl" {
		t.Errorf("purl ref: %+v", ref)
	}

	parents := make(map[string]string)
	for _, r := range out.Relationships {
		if r.Type == "DEPENDS_ON" {
			parents[r.Related] = r.Element
		}
	}
	if parents[out.Packages[1].SPDXID] != spdxRootID {
		t.Error("direct dependency should depend from the root package")
	}
	if parents[out.Packages[2].SPDXID] != "SPDXRef-DOCUMENT" {
		t.Error("transitive dependency should hang off the document")
	}
}

func TestToCycloneDX(t *testing.T) {
	out := ToCycloneDX(Build(testResult(), testMeta()))

	if out.BOMFormat != "CycloneDX" || out.SpecVersion != "1.5" {
		t.Errorf("header: %+v", out)
	}
	if out.SerialNumber != "urn:uuid:"+testSerial.String() {
		t.Errorf("SerialNumber = %q", out.SerialNumber)
	}
	if len(out.Components) != 3 {
		t.Fatalf("components: %+v", out.Components)
	}
	if l := out.Components[0].Licenses; len(l) != 1 || l[0].License.ID != "MIT" {
		t.Errorf("known license: %+v", l)
	}
	if l := out.Components[2].Licenses; len(l) != 1 || l[0].License.Name != "Custom License" {
		t.Errorf("declared license: %+v", l)
	}
	if out.Components[0].Scope != "required" || out.Components[1].Scope != "" {
		t.Error("scope should mark direct dependencies")
	}
}

func TestNotice(t *testing.T) {
	text := Notice(Build(testResult(), testMeta()))

	bsd := strings.Index(text, "BSD-3-Clause")
	mit := strings.Index(text, "\nMIT\n")
	unknown := strings.Index(text, "\nUnknown\n")
	if bsd < 0 || mit < 0 || unknown < 0 {
		t.Fatalf("missing groups:\n%s", text)
	}
	if !(bsd < mit && mit < unknown) {
		t.Errorf("groups out of order:\n%s", text)
	}
	if !strings.Contains(text, "  @babel/core 7.23.0\n") || !strings.Contains(text, "  mystery\n") {
		t.Errorf("components missing:\n%s", text)
	}
}
