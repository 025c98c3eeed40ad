package model

import (
	"encoding/json"
	"testing"
)

// TestLabelString tests the String method of Label.
func TestLabelString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		label    Label
		expected string
	}{
		{LabelWeak, "weak"},
		{LabelMedium, "medium"},
		{LabelStrong, "strong"},
		{Label(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if tc.label.String() != tc.expected {
				t.Errorf("got %q, expected %q", tc.label.String(), tc.expected)
			}
		})
	}
}

// TestLabelOrdering tests that labels are ordered weak < medium < strong.
func TestLabelOrdering(t *testing.T) {
	t.Parallel()

	if LabelWeak >= LabelMedium || LabelMedium >= LabelStrong {
		t.Error("labels must be ordered weak < medium < strong")
	}
	for i, l := range Labels {
		if int(l) != i {
			t.Errorf("Labels[%d] = %v, expected ordinal %d", i, l, i)
		}
	}
}

// TestParseLabel tests the ParseLabel function.
func TestParseLabel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    Label
		wantErr bool
	}{
		{"weak", LabelWeak, false},
		{"MEDIUM", LabelMedium, false},
		{" Strong ", LabelStrong, false},
		{"", 0, true},
		{"excellent", 0, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLabel(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLabel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Errorf("ParseLabel(%q) = %v, expected %v", tc.input, got, tc.want)
			}
		})
	}
}

// TestLabelJSON tests that labels travel as their names.
func TestLabelJSON(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(struct {
		Label Label `json:"label"`
	}{Label: LabelMedium})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"label":"medium"}` {
		t.Errorf("got %s", body)
	}

	var decoded struct {
		Label Label `json:"label"`
	}
	if err := json.Unmarshal([]byte(`{"label":"strong"}`), &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.Label != LabelStrong {
		t.Errorf("got %v, expected strong", decoded.Label)
	}

	if _, err := json.Marshal(struct{ L Label }{L: Label(7)}); err == nil {
		t.Error("expected an error marshaling an invalid label")
	}
}
