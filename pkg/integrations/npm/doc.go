// Package npm provides an HTTP client for the npm registry API.
//
// [Client.FetchPackage] resolves an npm range ("^4.17.0", "~1.2", ">=2 <3")
// against the published versions of a package and returns the license,
// repository and runtime dependencies of the selected version. The legacy
// "licenses" array is joined into an OR expression when "license" is absent.
//
//	client := npm.NewClient(backend, 24*time.Hour)
//	pkg, err := client.FetchPackage(ctx, "express", "^4.18.0", false)
package npm
