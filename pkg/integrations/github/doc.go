// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// The client answers license questions about repositories and serves the
// GitHub license catalogue:
//
//   - [Client.RepoLicense]: the license GitHub detected (repos/{owner}/{repo})
//   - [Client.LicenseFile]: raw text of LICENSE, LICENSE.md, LICENSE.txt or COPYING
//   - [Client.SearchRepository]: most starred repository with a given name,
//     used for C/C++ dependencies that have no registry
//   - [Client.Licenses] and [Client.License]: the catalogue with the
//     permissions, conditions and limitations of each license
//
// # Usage
//
//	client := github.NewClient(backend, os.Getenv("GITHUB_TOKEN"), 24*time.Hour)
//
//	lic, err := client.RepoLicense(ctx, "pallets", "flask", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(lic.SPDXID)
//
// # Authentication
//
// A token is optional. Without one the API allows 60 requests/hour; with a
// token the limit is 5000 requests/hour. Rate-limited responses (429, or 403
// with X-RateLimit-Remaining: 0) are retried after the advertised reset.
//
// # URL Extraction
//
// [ExtractURL] parses GitHub repository URLs from package metadata,
// handling various URL formats (with/without .git, trailing slashes, etc.).
package github
