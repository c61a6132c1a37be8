package repository

import "testing"

func TestKeywordCondition(t *testing.T) {
	cases := []struct {
		dialect string
		want    string
	}{
		{"sqlite", "(tracking_number LIKE ? OR recipient_name LIKE ?)"},
		{"postgres", "(tracking_number ILIKE ? OR recipient_name ILIKE ?)"},
		{"", "(tracking_number LIKE ? OR recipient_name LIKE ?)"},
	}
	for _, tc := range cases {
		condition, args := keywordCondition(tc.dialect, " TN1 ", []string{"tracking_number", "recipient_name"})
		if condition != tc.want {
			t.Fatalf("%s: unexpected condition %s", tc.dialect, condition)
		}
		if len(args) != 2 || args[0] != "%TN1%" {
			t.Fatalf("%s: unexpected args %v", tc.dialect, args)
		}
	}

	if condition, args := keywordCondition("sqlite", "  ", []string{"tracking_number"}); condition != "" || args != nil {
		t.Fatalf("blank keyword should produce no condition")
	}
}
