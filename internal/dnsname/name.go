// Package dnsname centralizes the DNS name arithmetic every other validation
// package needs: label counting, suffix stripping, canonical form, ancestry
// checks, and wildcard derivation. The rest of the validator shares this
// instead of re-deriving label math ad hoc (the teacher's
// getParentDomain/findClosestEncloser inline it per file).
package dnsname

import (
	"strings"

	"github.com/miekg/dns"
)

// Canonical returns the lowercase, fully-qualified form of name, matching
// RFC 4034 §6.1's canonical ordering requirements.
func Canonical(name string) string {
	return dns.CanonicalName(name)
}

// LabelCount returns the number of labels in name, excluding the root label.
func LabelCount(name string) int {
	return dns.CountLabel(dns.Fqdn(name))
}

// SplitLabels returns the labels of name, left to right, without the
// trailing root label.
func SplitLabels(name string) []string {
	return dns.SplitDomainName(name)
}

// StripLeft removes the n leftmost labels of name, returning the remaining
// suffix. StripLeft("www.example.com.", 1) == "example.com.".
func StripLeft(name string, n int) string {
	labels := SplitLabels(name)
	if n >= len(labels) {
		return "."
	}

	return dns.Fqdn(strings.Join(labels[n:], "."))
}

// IsSubdomainOf reports whether child is equal to or a descendant of parent.
func IsSubdomainOf(parent, child string) bool {
	return dns.IsSubDomain(dns.Fqdn(parent), dns.Fqdn(child))
}

// LongestCommonSuffix returns the longest sequence of labels, counted from
// the root, shared by a and b. Two unrelated names share only the root
// (".").
func LongestCommonSuffix(a, b string) string {
	la := SplitLabels(dns.Fqdn(a))
	lb := SplitLabels(dns.Fqdn(b))

	// Walk both label lists from the right (the root end).
	i, j := len(la)-1, len(lb)-1

	var shared []string

	for i >= 0 && j >= 0 && strings.EqualFold(la[i], lb[j]) {
		shared = append([]string{la[i]}, shared...)
		i--
		j--
	}

	if len(shared) == 0 {
		return "."
	}

	return dns.Fqdn(strings.Join(shared, "."))
}

// Wildcard prepends the "*" label to name, deriving the wildcard source of
// synthesis for a closest encloser.
func Wildcard(name string) string {
	return dns.Fqdn("*." + dns.Fqdn(name))
}

// Parent returns the immediate parent of name, or "" if name is the root.
func Parent(name string) string {
	name = dns.Fqdn(name)
	if name == "." {
		return ""
	}

	return StripLeft(name, 1)
}

// NextCloser returns the name one label longer than closestEncloser along
// the path from closestEncloser to qname. It is undefined (returns "") if
// closestEncloser is not a proper ancestor of qname.
func NextCloser(qname, closestEncloser string) string {
	qname = dns.Fqdn(qname)
	closestEncloser = dns.Fqdn(closestEncloser)

	qLabels := SplitLabels(qname)
	ceLabels := SplitLabels(closestEncloser)

	if len(qLabels) <= len(ceLabels) {
		return ""
	}

	start := len(qLabels) - len(ceLabels) - 1

	return dns.Fqdn(strings.Join(qLabels[start:], "."))
}

// Equal compares two names canonically.
func Equal(a, b string) bool {
	return Canonical(a) == Canonical(b)
}
