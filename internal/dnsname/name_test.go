package dnsname

import "testing"

func TestStripLeft(t *testing.T) {
	cases := []struct {
		name string
		n    int
		want string
	}{
		{"www.example.com.", 1, "example.com."},
		{"www.example.com.", 0, "www.example.com."},
		{"www.example.com.", 3, "."},
		{"example.com.", 5, "."},
	}

	for _, c := range cases {
		if got := StripLeft(c.name, c.n); got != c.want {
			t.Errorf("StripLeft(%q, %d) = %q, want %q", c.name, c.n, got, c.want)
		}
	}
}

func TestIsSubdomainOf(t *testing.T) {
	if !IsSubdomainOf("example.com.", "www.example.com.") {
		t.Error("expected www.example.com. to be a subdomain of example.com.")
	}

	if IsSubdomainOf("example.com.", "example.net.") {
		t.Error("did not expect example.net. to be a subdomain of example.com.")
	}

	if !IsSubdomainOf(".", "anything.at.all.") {
		t.Error("expected root to be an ancestor of every name")
	}
}

func TestLongestCommonSuffix(t *testing.T) {
	cases := []struct {
		a, b, want string
	}{
		{"www.example.com.", "mail.example.com.", "example.com."},
		{"example.com.", "example.net.", "."},
		{"a.b.c.", "a.b.c.", "a.b.c."},
	}

	for _, c := range cases {
		if got := LongestCommonSuffix(c.a, c.b); got != c.want {
			t.Errorf("LongestCommonSuffix(%q, %q) = %q, want %q", c.a, c.b, got, c.want)
		}
	}
}

func TestWildcard(t *testing.T) {
	if got := Wildcard("example.com."); got != "*.example.com." {
		t.Errorf("Wildcard = %q, want *.example.com.", got)
	}
}

func TestNextCloser(t *testing.T) {
	cases := []struct {
		qname, ce, want string
	}{
		{"a.b.c.example.com.", "example.com.", "c.example.com."},
		{"b.example.com.", "example.com.", "b.example.com."},
		{"example.com.", "example.com.", ""},
	}

	for _, c := range cases {
		if got := NextCloser(c.qname, c.ce); got != c.want {
			t.Errorf("NextCloser(%q, %q) = %q, want %q", c.qname, c.ce, got, c.want)
		}
	}
}

func TestParent(t *testing.T) {
	if got := Parent("example.com."); got != "com." {
		t.Errorf("Parent(example.com.) = %q, want com.", got)
	}

	if got := Parent("."); got != "" {
		t.Errorf("Parent(.) = %q, want empty", got)
	}
}
