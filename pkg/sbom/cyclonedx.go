package sbom

import "time"

// CycloneDXDocument is the JSON shape of a CycloneDX 1.5 BOM.
type CycloneDXDocument struct {
	BOMFormat    string               `json:"bomFormat"`
	SpecVersion  string               `json:"specVersion"`
	SerialNumber string               `json:"serialNumber"`
	Version      int                  `json:"version"`
	Metadata     CycloneDXMetadata    `json:"metadata"`
	Components   []CycloneDXComponent `json:"components"`
}

type CycloneDXMetadata struct {
	Timestamp string              `json:"timestamp"`
	Tools     []CycloneDXTool     `json:"tools,omitempty"`
	Component *CycloneDXComponent `json:"component,omitempty"`
}

type CycloneDXTool struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type CycloneDXComponent struct {
	BOMRef   string                `json:"bom-ref,omitempty"`
	Type     string                `json:"type"`
	Name     string                `json:"name"`
	Version  string                `json:"version,omitempty"`
	PURL     string                `json:"purl,omitempty"`
	Scope    string                `json:"scope,omitempty"`
	Licenses []CycloneDXLicenseRef `json:"licenses,omitempty"`
}

type CycloneDXLicenseRef struct {
	License CycloneDXLicense `json:"license"`
}

// CycloneDXLicense carries an SPDX id when known, else the declared name.
type CycloneDXLicense struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// ToCycloneDX maps doc to CycloneDX 1.5.
func ToCycloneDX(doc Document) CycloneDXDocument {
	out := CycloneDXDocument{
		BOMFormat:    "CycloneDX",
		SpecVersion:  "1.5",
		SerialNumber: "urn:uuid:" + doc.Serial.String(),
		Version:      1,
		Metadata: CycloneDXMetadata{
			Timestamp: doc.Created.UTC().Format(time.RFC3339),
			Tools:     []CycloneDXTool{{Name: doc.ToolName, Version: doc.ToolVersion}},
			Component: &CycloneDXComponent{
				Type:     "application",
				Name:     doc.Name,
				Version:  doc.Version,
				Licenses: cdxLicenses(doc.ProjectLicense, ""),
			},
		},
	}
	for _, c := range doc.Components {
		comp := CycloneDXComponent{
			BOMRef:   c.ID,
			Type:     "library",
			Name:     c.Name,
			Version:  c.Version,
			PURL:     c.PURL,
			Licenses: cdxLicenses(c.License, c.Declared),
		}
		if c.Direct {
			comp.Scope = "required"
		}
		out.Components = append(out.Components, comp)
	}
	return out
}

func cdxLicenses(spdx, declared string) []CycloneDXLicenseRef {
	switch {
	case spdx != "" && spdx != NoAssertion:
		return []CycloneDXLicenseRef{{License: CycloneDXLicense{ID: spdx}}}
	case declared != "":
		return []CycloneDXLicenseRef{{License: CycloneDXLicense{Name: declared}}}
	}
	return nil
}
