package version

import "testing"

func TestShortSHATruncatesToSevenChars(t *testing.T) {
	old := GitSHA
	defer func() { GitSHA = old }()

	GitSHA = "deadbeefcafe"
	if got := ShortSHA(); got != "deadbee" {
		t.Errorf("ShortSHA() = %q, want %q", got, "deadbee")
	}
}

func TestShortSHAPassesThroughShortValues(t *testing.T) {
	old := GitSHA
	defer func() { GitSHA = old }()

	GitSHA = "abc"
	if got := ShortSHA(); got != "abc" {
		t.Errorf("ShortSHA() = %q, want %q", got, "abc")
	}
}
