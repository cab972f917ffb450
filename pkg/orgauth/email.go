package orgauth

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifiedEmails is the normalized view of a provider's email list.
type VerifiedEmails struct {
	// Candidates holds every verified address, normalized and deduplicated, in input order.
	Candidates []string
	// Primary is the address a newly created account is stored under.
	Primary string
}

var emailCaser = cases.Lower(language.Und)

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(address string) string {
	return emailCaser.String(strings.TrimSpace(address))
}

// NormalizeEmails keeps verified addresses only and picks the primary one.
// The primary is the first address flagged both primary and verified,
// falling back to the first verified address.
// Returns ErrNoVerifiedEmail if nothing is verified.
func NormalizeEmails(emails []ProfileEmail) (VerifiedEmails, error) {
	var (
		result  VerifiedEmails
		seen    = make(map[string]struct{}, len(emails))
		primary string
	)

	for _, e := range emails {
		if !e.Verified {
			continue
		}
		address := NormalizeEmail(e.Address)
		if address == "" {
			continue
		}
		if e.Primary && primary == "" {
			primary = address
		}
		if _, ok := seen[address]; ok {
			continue
		}
		seen[address] = struct{}{}
		result.Candidates = append(result.Candidates, address)
	}

	if len(result.Candidates) == 0 {
		return VerifiedEmails{}, ErrNoVerifiedEmail
	}

	result.Primary = primary
	if result.Primary == "" {
		result.Primary = result.Candidates[0]
	}

	return result, nil
}
