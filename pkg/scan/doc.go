// Package scan runs a license audit of a project.
//
// A scan discovers manifests under the project root, parses them per
// ecosystem, expands transitive dependencies through the package
// registries, resolves every dependency's license and classifies it
// against the project license and configuration:
//
//	sc := scan.NewContext(".", cfg)
//	res, err := scan.Run(ctx, sc, scan.Options{Languages: langs, LocalFirst: true})
//	if err != nil {
//	    return err
//	}
//	for _, rec := range res.Records {
//	    fmt.Println(rec.Name, rec.License.Display())
//	}
//
// The OSI license list and the GitHub license catalogue are fetched in
// the background while manifests are parsed and awaited only when
// licenses are classified. Lookup failures never fail a scan; they are
// collected in [Result.Warnings].
package scan
