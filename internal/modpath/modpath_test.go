package modpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"already canonical", "/pkg$1.0.0/lib/a", "/pkg$1.0.0/lib/a"},
		{"dot elided", "/pkg$1.0.0/./lib", "/pkg$1.0.0/lib"},
		{"dotdot pops", "/pkg$1.0.0/lib/../other", "/pkg$1.0.0/other"},
		{"trailing slash collapsed", "/pkg$1.0.0/lib/", "/pkg$1.0.0/lib"},
		{"double slash collapsed", "/pkg$1.0.0//lib", "/pkg$1.0.0/lib"},
		{"dotdot at root clamps", "/../a", "/a"},
		{"empty becomes root", "", "/"},
		{"root stays root", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.path))
		})
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/pkg$1.0.0/lib/a", Join("/pkg$1.0.0/lib", "./a"))
	assert.Equal(t, "/pkg$1.0.0/other", Join("/pkg$1.0.0/lib", "../other"))
	assert.Equal(t, "/pkg$1.0.0", Join("/pkg$1.0.0/lib", ".."))
	assert.Equal(t, "/pkg$1.0.0/lib/sub/deep", Join("/pkg$1.0.0/lib", "./sub/deep"))
}

func TestDir(t *testing.T) {
	assert.Equal(t, "/pkg$1.0.0/lib", Dir("/pkg$1.0.0/lib/index"))
	assert.Equal(t, "/", Dir("/index"))
	assert.Equal(t, "/", Dir("/"))
}

func TestBase(t *testing.T) {
	assert.Equal(t, "index", Base("/pkg$1.0.0/lib/index"))
	assert.Equal(t, "", Base("/pkg$1.0.0/"))
}

func TestSplitPackage(t *testing.T) {
	tests := []struct {
		resolved string
		pkgID    string
		subpath  string
	}{
		{"/app$1.0.0/src/x", "app$1.0.0", "/src/x"},
		{"/app$1.0.0", "app$1.0.0", ""},
		{"/@scope/pkg$2.0.0/lib/util", "@scope/pkg$2.0.0", "/lib/util"},
		{"/@scope/pkg$2.0.0", "@scope/pkg$2.0.0", ""},
		{"/", "", ""},
	}

	for _, tt := range tests {
		pkgID, subpath := SplitPackage(tt.resolved)
		assert.Equal(t, tt.pkgID, pkgID, tt.resolved)
		assert.Equal(t, tt.subpath, subpath, tt.resolved)
	}
}

func TestVersioned(t *testing.T) {
	assert.Equal(t, "/foo$2.0.0", Versioned("foo", "2.0.0", ""))
	assert.Equal(t, "/foo$2.0.0/lib", Versioned("foo", "2.0.0", "/lib"))
	assert.Equal(t, "/@scope/foo$0.1.0", Versioned("@scope/foo", "0.1.0", ""))
}

func TestStripExt(t *testing.T) {
	assert.Equal(t, "/pkg$1.0.0/lib/a", StripExt("/pkg$1.0.0/lib/a.js"))
	assert.Equal(t, "/pkg$1.0.0/lib/a", StripExt("/pkg$1.0.0/lib/a"))
	// A leading dot is not an extension.
	assert.Equal(t, "/pkg$1.0.0/.hidden", StripExt("/pkg$1.0.0/.hidden"))
	// Only the final extension is stripped.
	assert.Equal(t, "/pkg$1.0.0/a.min", StripExt("/pkg$1.0.0/a.min.js"))
	// Version qualifiers are not extensions.
	assert.Equal(t, "/foo$2.0.0", StripExt("/foo$2.0.0"))
}

func TestIsRelativeIsAbsolute(t *testing.T) {
	assert.True(t, IsRelative("./a"))
	assert.True(t, IsRelative("../a"))
	assert.True(t, IsRelative("."))
	assert.False(t, IsRelative("/a"))
	assert.True(t, IsAbsolute("/a"))
	assert.False(t, IsAbsolute("foo"))
}
