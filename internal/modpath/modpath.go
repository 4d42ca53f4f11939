// Package modpath implements normalization and joining of versioned module
// paths of the form /<name>$<version>/sub/path. These are logical
// identifiers, not filesystem paths: separators are always forward slashes
// and the root is always "/".
package modpath

import "strings"

// IsRelative reports whether target is a relative specifier ("./x", "../x"
// or a bare "." / "..").
func IsRelative(target string) bool {
	return strings.HasPrefix(target, ".")
}

// IsAbsolute reports whether target is an absolute specifier.
func IsAbsolute(target string) bool {
	return strings.HasPrefix(target, "/")
}

// Normalize canonicalizes an absolute module path: ".." pops one segment,
// "." is elided and empty segments (doubled or trailing slashes) are
// collapsed. The result always begins with "/".
func Normalize(path string) string {
	segments := strings.Split(path, "/")
	stack := make([]string, 0, len(segments))

	for _, segment := range segments {
		switch segment {
		case "", ".":
			// collapsed
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, segment)
		}
	}

	return "/" + strings.Join(stack, "/")
}

// Join resolves a relative target against a directory and normalizes the
// result. dir must already be an absolute path.
func Join(dir, target string) string {
	return Normalize(dir + "/" + target)
}

// Dir returns the directory portion of a resolved path. The directory of a
// top-level entry is "/".
func Dir(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return "/"
	}
	return path[:idx]
}

// Base returns the final segment of a resolved path.
func Base(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// SplitPackage splits a resolved path into the identity of the package it
// belongs to and the remaining subpath. Scoped package names (those
// beginning with "@") consume two path segments instead of one.
func SplitPackage(resolved string) (pkgID, subpath string) {
	trimmed := strings.TrimPrefix(resolved, "/")
	if trimmed == "" {
		return "", ""
	}

	segments := strings.Split(trimmed, "/")
	take := 1
	if strings.HasPrefix(segments[0], "@") && len(segments) > 1 {
		take = 2
	}

	pkgID = strings.Join(segments[:take], "/")
	if len(segments) > take {
		subpath = "/" + strings.Join(segments[take:], "/")
	}

	return pkgID, subpath
}

// Versioned builds the canonical versioned path for a package name,
// version and subpath: /<name>$<version><subpath>.
func Versioned(name, version, subpath string) string {
	return "/" + name + "$" + version + subpath
}

// StripExt removes the file extension from the final segment, once. Paths
// whose final segment has no extension (or only a leading dot) are
// returned unchanged. Version qualifiers such as "pkg$1.0.0" are not
// extensions: the text after the dot must begin with a letter.
func StripExt(path string) string {
	base := Base(path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 || idx == len(base)-1 {
		return path
	}

	ext := base[idx+1:]
	if ext[0] < 'A' || (ext[0] > 'Z' && ext[0] < 'a') || ext[0] > 'z' {
		return path
	}

	return path[:len(path)-(len(base)-idx)]
}
