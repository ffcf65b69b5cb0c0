// Package crates provides an HTTP client for the crates.io API.
//
// # Usage
//
//	client := crates.NewClient(backend, 24*time.Hour)
//
//	crate, err := client.FetchCrate(ctx, "serde", "1.0", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(crate.Name, crate.Version, crate.License)
//
// # Version selection
//
// The version argument is a Cargo requirement. A bare version such as "1.0"
// is a caret requirement, so it selects the newest non-yanked 1.x release.
// Lock-file versions ("1.0.193") are used as is. The license reported is the
// one published with the selected version.
//
// # Dependency Filtering
//
// Only "normal" dependencies are included. Development, build and optional
// dependencies are filtered out.
//
// # User-Agent
//
// The client includes a User-Agent header as requested by crates.io policy.
package crates
