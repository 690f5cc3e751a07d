package core

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"active", EmployeeStatusActive},
		{" Active ", EmployeeStatusActive},
		{"ON_LEAVE", EmployeeStatusOnLeave},
		{"resigned", EmployeeStatusResigned},
		{"", EmployeeStatusActive},
		{"fired", EmployeeStatusActive},
	}
	for _, tc := range cases {
		if got := normalizeStatus(tc.in); got != tc.want {
			t.Errorf("normalizeStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
