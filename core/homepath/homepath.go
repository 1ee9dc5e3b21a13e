// Package homepath converts between absolute paths and their "~" display form.
//
// Both directions are pure string transforms, the filesystem is never
// consulted. An empty home directory turns both into the identity.
package homepath

import "strings"

// Tilde is the display form of the home directory.
const Tilde = "~"

// normalizeHome strips trailing slashes, a home of "/" normalizes to "".
func normalizeHome(home string) string {
	return strings.TrimRight(home, "/")
}

// Condense replaces a leading home directory in path with "~".
//
// Only whole path elements match: with a home of /home/bob the path
// /home/bobby is returned unchanged.
func Condense(path, home string) string {
	home = normalizeHome(home)
	if home == "" || !strings.HasPrefix(path, home) {
		return path
	}

	rest := path[len(home):]
	if rest != "" && !strings.HasPrefix(rest, "/") {
		return path
	}
	return Tilde + rest
}

// Expand replaces a leading "~" in path with home. Trailing slashes of home
// are ignored, as they are by Condense.
func Expand(path, home string) string {
	if home == "" || !strings.HasPrefix(path, Tilde) {
		return path
	}

	rest := strings.TrimPrefix(path, Tilde)
	if home = normalizeHome(home); home == "" {
		return "/" + strings.TrimPrefix(rest, "/")
	}
	return home + rest
}
