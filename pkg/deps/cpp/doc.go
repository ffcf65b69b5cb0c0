// Package cpp provides dependency discovery for C and C++ projects.
//
// # Overview
//
// C and C++ have no single package registry. This package reads the
// dependency declarations of the common build systems and package
// managers, taking the first one present in this order:
//
//  1. vcpkg.json
//  2. conanfile.txt, conanfile.py
//  3. CMakeLists.txt (FetchContent_Declare, find_package)
//  4. MODULE.bazel, WORKSPACE
//
// Versions the build files do not pin are reported as "latest" (vcpkg),
// "git" (FetchContent), "system" (find_package) or "archive"
// (http_archive).
//
// # License Lookup
//
// Licenses come from the vcpkg port manifest of the same name when one
// exists, else from the most starred GitHub repository named like the
// dependency. Dependencies are not expanded transitively.
package cpp
