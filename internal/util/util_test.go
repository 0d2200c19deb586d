package util

import "testing"

func TestExpandEnvUniversal(t *testing.T) {
	t.Setenv("STATREAD_TEST_DIR", "/data/releases")

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Unix style", input: "$STATREAD_TEST_DIR/ukea.csv", want: "/data/releases/ukea.csv"},
		{name: "Unix braced", input: "${STATREAD_TEST_DIR}/ukea.csv", want: "/data/releases/ukea.csv"},
		{name: "Windows style", input: "%STATREAD_TEST_DIR%\\ukea.csv", want: "/data/releases\\ukea.csv"},
		{name: "Unknown variable", input: "%NO_SUCH_STATREAD_VAR%/x", want: "/x"},
		{name: "No variables", input: "plain/path.csv", want: "plain/path.csv"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExpandEnvUniversal(tc.input); got != tc.want {
				t.Errorf("ExpandEnvUniversal(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
