package licenses

// fallbackApproved is used when the OSI API cannot be reached.
var fallbackApproved = []string{
	"0BSD", "AFL-3.0", "AGPL-3.0", "Apache-2.0", "Artistic-2.0", "BSD-2-Clause",
	"BSD-3-Clause", "BSL-1.0", "CDDL-1.0", "ECL-2.0", "EPL-1.0", "EPL-2.0",
	"EUPL-1.2", "GPL-2.0", "GPL-3.0", "ISC", "LGPL-2.1", "LGPL-3.0", "MIT",
	"MIT-0", "MPL-2.0", "MS-PL", "MS-RL", "NCSA", "OFL-1.1", "PostgreSQL",
	"PSF-2.0", "Python-2.0", "UPL-1.0", "Unicode-3.0", "Unlicense", "Zlib",
}

// OSIResolver maps license identifiers to their OSI approval status.
type OSIResolver struct {
	approved      map[string]bool
	authoritative bool
}

// NewOSIResolver builds a resolver from the approved ids returned by the
// OSI API. Ids are normalized so "GPL-3.0-only" and "GPL-3.0" agree.
func NewOSIResolver(approved []string) *OSIResolver {
	r := &OSIResolver{approved: make(map[string]bool, len(approved)), authoritative: true}
	for _, id := range approved {
		if n := Normalize(id); n != "" {
			r.approved[n] = true
		}
	}
	return r
}

// FallbackOSIResolver returns a resolver over a static table of well-known
// approved licenses. Identifiers outside the table are Unknown rather than
// NotApproved because the authority was not consulted.
func FallbackOSIResolver() *OSIResolver {
	r := NewOSIResolver(fallbackApproved)
	r.authoritative = false
	return r
}

// Authoritative reports whether the resolver was built from the OSI API.
func (r *OSIResolver) Authoritative() bool { return r.authoritative }

// Status returns the approval status of a normalized identifier.
func (r *OSIResolver) Status(id string) OSIStatus {
	if id == "" || !LooksLikeSPDX(id) {
		return OSIUnknown
	}
	if r.approved[id] {
		return OSIApproved
	}
	if r.authoritative {
		return OSINotApproved
	}
	return OSIUnknown
}
