package sbom

import "time"

// SPDXDocument is the JSON shape of an SPDX 2.3 document.
type SPDXDocument struct {
	SPDXVersion       string         `json:"spdxVersion"`
	DataLicense       string         `json:"dataLicense"`
	SPDXID            string         `json:"SPDXID"`
	Name              string         `json:"name"`
	DocumentNamespace string         `json:"documentNamespace"`
	CreationInfo      SPDXCreation   `json:"creationInfo"`
	Packages          []SPDXPackage  `json:"packages"`
	Relationships     []SPDXRelation `json:"relationships"`
}

type SPDXCreation struct {
	Created  string   `json:"created"`
	Creators []string `json:"creators"`
}

type SPDXPackage struct {
	SPDXID           string       `json:"SPDXID"`
	Name             string       `json:"name"`
	VersionInfo      string       `json:"versionInfo,omitempty"`
	DownloadLocation string       `json:"downloadLocation"`
	FilesAnalyzed    bool         `json:"filesAnalyzed"`
	LicenseConcluded string       `json:"licenseConcluded"`
	LicenseDeclared  string       `json:"licenseDeclared"`
	ExternalRefs     []SPDXExtRef `json:"externalRefs,omitempty"`
}

type SPDXExtRef struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

type SPDXRelation struct {
	Element string `json:"spdxElementId"`
	Type    string `json:"relationshipType"`
	Related string `json:"relatedSpdxElement"`
}

const spdxRootID = "SPDXRef-Package-root"

// ToSPDX maps doc to SPDX 2.3. The project is the described root package;
// direct dependencies hang off it, the others off the document.
func ToSPDX(doc Document) SPDXDocument {
	creators := []string{"Tool: " + doc.ToolName}
	if doc.ToolVersion != "" {
		creators[0] += "-" + doc.ToolVersion
	}
	out := SPDXDocument{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              doc.Name,
		DocumentNamespace: doc.Namespace,
		CreationInfo: SPDXCreation{
			Created:  doc.Created.UTC().Format(time.RFC3339),
			Creators: creators,
		},
	}

	root := SPDXPackage{
		SPDXID:           spdxRootID,
		Name:             doc.Name,
		VersionInfo:      doc.Version,
		DownloadLocation: NoAssertion,
		LicenseConcluded: orNoAssertion(doc.ProjectLicense),
		LicenseDeclared:  orNoAssertion(doc.ProjectLicense),
	}
	out.Packages = append(out.Packages, root)
	out.Relationships = append(out.Relationships, SPDXRelation{"SPDXRef-DOCUMENT", "DESCRIBES", spdxRootID})

	for _, c := range doc.Components {
		p := SPDXPackage{
			SPDXID:           c.ID,
			Name:             c.Name,
			VersionInfo:      c.Version,
			DownloadLocation: NoAssertion,
			LicenseConcluded: c.License,
			LicenseDeclared:  c.License,
		}
		if c.PURL != "" {
			p.ExternalRefs = []SPDXExtRef{{
				ReferenceCategory: "PACKAGE-MANAGER",
				ReferenceType:     "purl",
				ReferenceLocator:  c.PURL,
			}}
		}
		out.Packages = append(out.Packages, p)

		parent := "SPDXRef-DOCUMENT"
		if c.Direct {
			parent = spdxRootID
		}
		out.Relationships = append(out.Relationships, SPDXRelation{parent, "DEPENDS_ON", c.ID})
	}
	return out
}

func orNoAssertion(s string) string {
	if s == "" {
		return NoAssertion
	}
	return s
}
