package prompt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCategorizeSingleDomain(t *testing.T) {
	cases := []struct {
		input string
		want  []Domain
	}{
		{"delete old logs", []Domain{DomainFile}},
		{"kill the stuck background job", []Domain{DomainProcess}},
		{"ping the api server", []Domain{DomainNetwork}},
		{"replace foo with bar using sed", []Domain{DomainText}},
	}
	for _, tc := range cases {
		got := Categorize(tc.input)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Categorize(%q) mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}

func TestCategorizeMultipleDomains(t *testing.T) {
	got := Categorize("search for python files and count lines")
	want := []Domain{DomainFile, DomainText}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categorize mismatch (-want +got):\n%s", diff)
	}
}

func TestCategorizeNoMatch(t *testing.T) {
	if got := Categorize("do something mysterious"); len(got) != 0 {
		t.Errorf("expected no domains, got %v", got)
	}
}

func TestCategorizeIsCaseInsensitive(t *testing.T) {
	got := Categorize("DOWNLOAD the latest release")
	want := []Domain{DomainNetwork}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categorize mismatch (-want +got):\n%s", diff)
	}
}
