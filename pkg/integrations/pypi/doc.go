// Package pypi provides an HTTP client for the Python Package Index JSON API.
//
// # Usage
//
//	client := pypi.NewClient(backend, 24*time.Hour)
//
//	pkg, err := client.FetchPackage(ctx, "requests", "==2.31.0", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(pkg.Name, pkg.Version, pkg.License)
//
// # Release selection
//
// A pinned specifier is fetched from the release endpoint directly. Ranges
// are resolved against the project's release list; anything unresolvable
// falls back to the latest release.
//
// # License extraction
//
// PyPI metadata carries licenses in three places. The PEP 639
// license_expression is preferred, then the trove classifier, then the
// free-text license field when it looks like a name rather than a full text.
package pypi
