package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

// RequireTestEnvironmentOrSkip skips the test instead of failing it outside GO_ENV=test
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// PrintEnvironmentInfo prints the current test environment configuration
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL: %s\n", MaskDatabaseURL(os.Getenv("DATABASE_URL")))
	fmt.Printf("  REDIS_URL: %s\n", MaskDatabaseURL(os.Getenv("REDIS_URL")))
}

// MaskDatabaseURL hides everything after the scheme and flags URLs that do not look like test databases
func MaskDatabaseURL(url string) string {
	if url == "" {
		return "(not set)"
	}

	scheme := url
	if i := strings.Index(url, "://"); i >= 0 {
		scheme = url[:i+3]
	}
	if strings.Contains(url, "test") || strings.Contains(url, ":memory:") {
		return scheme + "... [test]"
	}
	return scheme + "... [WARNING: may not be test DB]"
}
