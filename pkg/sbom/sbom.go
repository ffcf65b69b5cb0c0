// Package sbom turns scan results into software bill of materials
// content: SPDX 2.3 and CycloneDX 1.5 documents and NOTICE text.
//
// [Build] produces a format-neutral [Document]; [ToSPDX] and
// [ToCycloneDX] map it to the JSON shapes of each standard. Encoding the
// result is left to the caller.
package sbom

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/package-url/packageurl-go"

	"github.com/matzehuels/feluda/internal/semver"
	"github.com/matzehuels/feluda/pkg/deps"
	"github.com/matzehuels/feluda/pkg/scan"
)

// NoAssertion is the SPDX value for unknown license data.
const NoAssertion = "NOASSERTION"

// Meta describes the scanned project and the producing tool.
type Meta struct {
	Name        string
	Version     string
	ToolName    string
	ToolVersion string
	Created     time.Time // now when zero
	Serial      uuid.UUID // random when zero
}

// Document is the format-neutral bill of materials.
type Document struct {
	Name           string
	Version        string
	Namespace      string
	Serial         uuid.UUID
	Created        time.Time
	ToolName       string
	ToolVersion    string
	ProjectLicense string
	Components     []Component
}

// Component is one dependency.
type Component struct {
	ID        string // document-unique reference
	Name      string
	Version   string // exact version, or "" for ranges
	Ecosystem deps.Ecosystem
	PURL      string
	License   string // concluded SPDX id, or NOASSERTION
	Declared  string // license string as found
	Direct    bool
}

// Build assembles the document for res.
func Build(res *scan.Result, meta Meta) Document {
	if meta.Created.IsZero() {
		meta.Created = time.Now().UTC()
	}
	if meta.Serial == uuid.Nil {
		meta.Serial = uuid.New()
	}
	if meta.Name == "" {
		meta.Name = "project"
	}
	if meta.ToolName == "" {
		meta.ToolName = "feluda"
	}

	doc := Document{
		Name:           meta.Name,
		Version:        meta.Version,
		Namespace:      "https://spdx.org/spdxdocs/" + slug(meta.Name) + "-" + meta.Serial.String(),
		Serial:         meta.Serial,
		Created:        meta.Created,
		ToolName:       meta.ToolName,
		ToolVersion:    meta.ToolVersion,
		ProjectLicense: res.ProjectLicense,
	}
	for i, r := range res.Records {
		version, _ := semver.Exact(r.Version)
		c := Component{
			ID:        componentID(i, r.Name),
			Name:      r.Name,
			Version:   version,
			Ecosystem: r.Ecosystem,
			PURL:      PackageURL(r.Ecosystem, r.Name, version),
			License:   NoAssertion,
			Direct:    r.Direct(),
		}
		if r.License.SPDX != "" {
			c.License = r.License.SPDX
		}
		if len(r.License.Raw) > 0 {
			c.Declared = r.License.Raw[0]
		}
		doc.Components = append(doc.Components, c)
	}
	return doc
}

// purlTypes maps ecosystems to package URL types.
var purlTypes = map[deps.Ecosystem]string{
	deps.Rust:   packageurl.TypeCargo,
	deps.Node:   packageurl.TypeNPM,
	deps.Go:     packageurl.TypeGolang,
	deps.Python: packageurl.TypePyPi,
	deps.R:      packageurl.TypeCran,
	deps.Cpp:    packageurl.TypeGeneric,
	deps.DotNet: packageurl.TypeNuget,
}

// PackageURL returns the purl of a package. Scoped npm names and Go
// module paths are split into namespace and name.
func PackageURL(eco deps.Ecosystem, name, version string) string {
	typ, ok := purlTypes[eco]
	if !ok {
		typ = packageurl.TypeGeneric
	}
	var namespace string
	switch eco {
	case deps.Node, deps.Go:
		if i := strings.LastIndex(name, "/"); i > 0 {
			namespace, name = name[:i], name[i+1:]
		}
	case deps.Python:
		name = strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	}
	return packageurl.NewPackageURL(typ, namespace, name, version, nil, "").ToString()
}

func componentID(i int, name string) string {
	return "SPDXRef-Package-" + slug(name) + "-" + strconv.Itoa(i)
}

// slug keeps characters valid in SPDX identifiers.
func slug(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
