package homepath

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleCondense() {
	fmt.Println(Condense("/home/bob/src", "/home/bob"))
	fmt.Println(Condense("/home/bob", "/home/bob"))
	fmt.Println(Condense("/tmp", "/home/bob"))

	// Output: ~/src
	// ~
	// /tmp
}

func ExampleExpand() {
	fmt.Println(Expand("~/src", "/home/bob"))
	fmt.Println(Expand("~", "/home/bob"))
	fmt.Println(Expand("/tmp/~", "/home/bob"))

	// Output: /home/bob/src
	// /home/bob
	// /tmp/~
}

func TestCondense(t *testing.T) {
	cases := map[string]struct {
		path     string
		home     string
		expected string
	}{
		"home":            {"/home/bob", "/home/bob", "~"},
		"nested":          {"/home/bob/a/b", "/home/bob", "~/a/b"},
		"trailing-slash":  {"/home/bob/a", "/home/bob/", "~/a"},
		"outside":         {"/usr/bin", "/home/bob", "/usr/bin"},
		"sibling-prefix":  {"/home/bobby", "/home/bob", "/home/bobby"},
		"no-home":         {"/home/bob", "", "/home/bob"},
		"root-home":       {"/usr", "/", "/usr"},
		"empty-path":      {"", "/home/bob", ""},
		"relative-path":   {"home/bob", "/home/bob", "home/bob"},
		"home-is-subpath": {"/home", "/home/bob", "/home"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, Condense(tc.path, tc.home))
		})
	}
}

func TestExpand(t *testing.T) {
	cases := map[string]struct {
		path     string
		home     string
		expected string
	}{
		"tilde":       {"~", "/home/bob", "/home/bob"},
		"nested":      {"~/a/b", "/home/bob", "/home/bob/a/b"},
		"first-char":  {"~x", "/home/bob", "/home/bobx"},
		"not-leading": {"a/~", "/home/bob", "a/~"},
		"absolute":    {"/etc", "/home/bob", "/etc"},
		"no-home":     {"~/a", "", "~/a"},
		"empty":       {"", "/home/bob", ""},
		"trailing":    {"~/a", "/home/bob/", "/home/bob/a"},
		"root-home":   {"~", "/", "/"},
		"root-nested": {"~/a", "/", "/a"},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, Expand(tc.path, tc.home))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	paths := []string{
		"/home/bob",
		"/home/bob/",
		"/home/bob/a",
		"/home/bob/a/b/c",
		"/home/bob/~weird",
		"/home/bobby",
		"/usr",
		"/",
	}

	for _, home := range []string{"/home/bob", "/home/bob/", "/home/bob//", "/"} {
		for _, path := range paths {
			t.Run(home+" "+path, func(t *testing.T) {
				assert.Equal(t, path, Expand(Condense(path, home), home))
			})
		}
	}
}
