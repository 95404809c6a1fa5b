package ingest

import (
	"testing"
)

func TestParseRepoURL_Valid(t *testing.T) {
	cases := []struct {
		in    string
		owner string
		name  string
	}{
		{"https://github.com/golang/go", "golang", "go"},
		{"https://github.com/golang/go.git", "golang", "go"},
		{"https://github.com/golang/go/tree/master/src", "golang", "go"},
		{"github.com/gin-gonic/gin", "gin-gonic", "gin"},
		{"gin-gonic/gin", "gin-gonic", "gin"},
	}

	for _, c := range cases {
		ref, err := ParseRepoURL(c.in)
		if err != nil {
			t.Fatalf("ParseRepoURL(%q) failed: %v", c.in, err)
		}
		if ref.Owner != c.owner || ref.Name != c.name {
			t.Errorf("ParseRepoURL(%q) = %s/%s, want %s/%s", c.in, ref.Owner, ref.Name, c.owner, c.name)
		}
	}
}

func TestParseRepoURL_Invalid(t *testing.T) {
	cases := []string{
		"",
		"https://example.com/owner/repo",
		"https://gitlab.com/owner/repo",
		"ftp://github.com/owner/repo",
		"https://github.com/owner",
		"not a url at all",
		"owner/../etc",
	}

	for _, c := range cases {
		if _, err := ParseRepoURL(c); err == nil {
			t.Errorf("ParseRepoURL(%q) succeeded, want error", c)
		}
	}
}

func TestRepoRef_Naming(t *testing.T) {
	ref := RepoRef{Owner: "golang", Name: "go"}
	if ref.FullName() != "golang/go" {
		t.Errorf("FullName = %s", ref.FullName())
	}
	if ref.DirName() != "golang__go" {
		t.Errorf("DirName = %s", ref.DirName())
	}
	if ref.CloneURL() != "https://github.com/golang/go.git" {
		t.Errorf("CloneURL = %s", ref.CloneURL())
	}
}
