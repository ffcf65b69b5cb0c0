package licenses

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// projectLicenseFiles are checked in order by DetectProjectLicense.
var projectLicenseFiles = []string{"LICENSE", "LICENSE.txt", "LICENSE.md", "license", "COPYING"}

type textRule struct {
	id  string
	all []string
}

// textRules classify license texts by phrases that appear in them. More
// specific licenses come first: the LGPL and AGPL texts quote the GPL.
var textRules = []textRule{
	{"AGPL-3.0", []string{"GNU AFFERO GENERAL PUBLIC LICENSE", "Version 3"}},
	{"LGPL-3.0", []string{"GNU LESSER GENERAL PUBLIC LICENSE", "Version 3"}},
	{"LGPL-2.1", []string{"GNU LESSER GENERAL PUBLIC LICENSE", "Version 2.1"}},
	{"GPL-3.0", []string{"GNU GENERAL PUBLIC LICENSE", "Version 3"}},
	{"GPL-2.0", []string{"GNU GENERAL PUBLIC LICENSE", "Version 2"}},
	{"Apache-2.0", []string{"Apache License", "Version 2.0"}},
	{"MPL-2.0", []string{"Mozilla Public License", "Version 2.0"}},
	{"MIT", []string{"MIT License"}},
	{"MIT", []string{"Permission is hereby granted, free of charge"}},
	{"BSD-3-Clause", []string{"Redistribution and use", "Neither the name"}},
	{"BSD-2-Clause", []string{"Redistribution and use", "this list of conditions"}},
	{"ISC", []string{"Permission to use, copy, modify, and/or distribute this software for any purpose with or without fee"}},
	{"Unlicense", []string{"This is free and unencumbered software released into the public domain"}},
	{"BSL-1.0", []string{"Boost Software License - Version 1.0"}},
	{"Zlib", []string{"This software is provided 'as-is', without any express or implied"}},
}

// ClassifyText identifies a license from its full text by keywords.
// It returns "" when no rule matches.
func ClassifyText(text string) string {
	for _, r := range textRules {
		ok := true
		for _, phrase := range r.all {
			if !strings.Contains(text, phrase) {
				ok = false
				break
			}
		}
		if ok {
			return r.id
		}
	}
	return ""
}

// DetectProjectLicense determines the license dir declares. License files
// are tried first, then package.json "license", Cargo.toml
// package.license and pyproject.toml project.license (a string or a table
// with "text"). It returns "" without error when nothing is found;
// unreadable or malformed manifests are skipped.
func DetectProjectLicense(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &fs.PathError{Op: "detect license", Path: dir, Err: errors.New("not a directory")}
	}

	for _, name := range projectLicenseFiles {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		if id := ClassifyText(string(data)); id != "" {
			return id, nil
		}
	}

	for _, detect := range []func(string) string{fromPackageJSON, fromCargoToml, fromPyproject} {
		if raw := detect(dir); raw != "" {
			if id := Normalize(raw); id != "" {
				return id, nil
			}
		}
	}
	return "", nil
}

func fromPackageJSON(dir string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg struct {
		License any `json:"license"`
	}
	if json.Unmarshal(data, &pkg) != nil {
		return ""
	}
	switch v := pkg.License.(type) {
	case string:
		return v
	case map[string]any:
		s, _ := v["type"].(string)
		return s
	}
	return ""
}

func fromCargoToml(dir string) string {
	var cargo struct {
		Package struct {
			License string `toml:"license"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(filepath.Join(dir, "Cargo.toml"), &cargo); err != nil {
		return ""
	}
	return cargo.Package.License
}

func fromPyproject(dir string) string {
	var py struct {
		Project struct {
			License any `toml:"license"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				License string `toml:"license"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.DecodeFile(filepath.Join(dir, "pyproject.toml"), &py); err != nil {
		return ""
	}
	switch v := py.Project.License.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["text"].(string); ok {
			return s
		}
	}
	return py.Tool.Poetry.License
}
