package parser

import (
	"path/filepath"
	"strings"
)

// DialectSpec describes one supported source dialect.
type DialectSpec struct {
	Name             string
	Extensions       []string
	TestFileSuffixes []string
}

func DialectRegistry() map[string]DialectSpec {
	return map[string]DialectSpec{
		"go": {
			Name:             "go",
			Extensions:       []string{".go"},
			TestFileSuffixes: []string{"_test.go"},
		},
		"java": {
			Name:             "java",
			Extensions:       []string{".java"},
			TestFileSuffixes: []string{"Test.java", "Tests.java"},
		},
	}
}

// MatchesDialect reports whether the path belongs to the dialect.
func MatchesDialect(spec DialectSpec, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range spec.Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// IsTestFile reports whether the path is a test source of the dialect.
func IsTestFile(spec DialectSpec, path string) bool {
	base := filepath.Base(path)
	for _, suffix := range spec.TestFileSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
