// Package goproxy provides an HTTP client for the Go Module Proxy.
//
// # Usage
//
//	client := goproxy.NewClient(backend, 24*time.Hour)
//
//	mod, err := client.FetchModule(ctx, "github.com/spf13/cobra", "v1.8.0", false)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(mod.Path, mod.Version, mod.Repository)
//
// # Licenses
//
// The proxy serves no license metadata. [ModuleInfo.Repository] points the
// caller at the source repository, whose hosting API reports the license.
//
// # Dependency Filtering
//
// Only direct requirements are followed. Requirements marked "// indirect"
// are skipped; [ParseGoMod] still reports them so local go.mod files can
// record them as transitive.
//
// # Path Escaping
//
// Module paths with uppercase letters are escaped per the Go module proxy
// protocol (uppercase becomes !lowercase).
package goproxy
