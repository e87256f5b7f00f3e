package fonts

import "testing"

func TestFamilyList(t *testing.T) {
	tests := []struct {
		name     string
		families []string
		want     string
	}{
		{"defaults", []string{DefaultPrimary, DefaultSecondary}, "'times new roman', 'bbcnassim'"},
		{"single", []string{"arial"}, "'arial'"},
		{"skips empty", []string{"arial", ""}, "'arial'"},
		{"none", nil, ""},
		{"verbatim", []string{"weird'name"}, "'weird'name'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FamilyList(tt.families...); got != tt.want {
				t.Errorf("FamilyList(%q) = %q, want %q", tt.families, got, tt.want)
			}
		})
	}
}
