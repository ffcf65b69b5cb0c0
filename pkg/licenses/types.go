package licenses

import "strings"

// OSIStatus is the OSI approval state of a license.
type OSIStatus int

const (
	OSIUnknown OSIStatus = iota
	OSIApproved
	OSINotApproved
)

func (s OSIStatus) String() string {
	switch s {
	case OSIApproved:
		return "approved"
	case OSINotApproved:
		return "not-approved"
	default:
		return "unknown"
	}
}

func (s OSIStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Verdict is the result of a compatibility evaluation.
type Verdict int

const (
	NotEvaluated Verdict = iota
	Compatible
	Incompatible
)

func (v Verdict) String() string {
	switch v {
	case Compatible:
		return "compatible"
	case Incompatible:
		return "incompatible"
	default:
		return "not-evaluated"
	}
}

func (v Verdict) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// Source records where a license was found.
type Source string

const (
	SourceLocal       Source = "local"        // lock file or manifest
	SourceRegistry    Source = "registry"     // package registry API
	SourceRepository  Source = "repository"   // source host license detection
	SourceLicenseFile Source = "license-file" // scraped LICENSE text
	SourceUnknown     Source = "unknown"
)

// Info is the license classification attached to one dependency.
type Info struct {
	Raw           []string  `json:"raw,omitempty"`
	SPDX          string    `json:"spdx,omitempty"`
	OSI           OSIStatus `json:"osi"`
	Restrictive   bool      `json:"restrictive"`
	Compatibility Verdict   `json:"compatibility"`
	Source        Source    `json:"source"`
}

// Known reports whether the license normalized to an identifier.
func (i Info) Known() bool { return i.SPDX != "" }

// Display is the license as shown to users: the normalized id, the raw
// string when it did not normalize, or "Unknown".
func (i Info) Display() string {
	if i.SPDX != "" {
		return i.SPDX
	}
	if len(i.Raw) > 0 && strings.TrimSpace(i.Raw[0]) != "" {
		return i.Raw[0]
	}
	return "Unknown"
}
