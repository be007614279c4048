// Package emaildomain classifies email domains as consumer/free-mail
// providers or company-owned domains.
//
// Two sets exist on purpose: a small frontend subset for instant feedback
// in forms, and the canonical list for authoritative server-side decisions.
// The asymmetry lets clients react immediately without shipping the full
// list, while the relay stays the source of truth.
package emaildomain

import "github.com/praxisio/contactrelay/pkg/sanitizer"

// frontendSubset is the short list surfaced to forms for instant feedback.
var frontendSubset = toSet([]string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"aol.com",
	"icloud.com",
	"live.com",
	"protonmail.com",
	"online.no",
})

// canonical is the full consumer-provider list used server-side.
var canonical = toSet([]string{
	// Global providers
	"gmail.com",
	"googlemail.com",
	"yahoo.com",
	"yahoo.co.uk",
	"yahoo.no",
	"ymail.com",
	"hotmail.com",
	"hotmail.co.uk",
	"hotmail.no",
	"outlook.com",
	"outlook.no",
	"live.com",
	"live.no",
	"msn.com",
	"aol.com",
	"icloud.com",
	"me.com",
	"mac.com",
	"protonmail.com",
	"proton.me",
	"pm.me",
	"tutanota.com",
	"tuta.io",
	"zoho.com",
	"mail.com",
	"gmx.com",
	"gmx.net",
	"gmx.de",
	"yandex.com",
	"yandex.ru",
	"mail.ru",
	"fastmail.com",
	"hey.com",
	// Norwegian consumer providers
	"online.no",
	"getmail.no",
	"start.no",
	"frisurf.no",
	"broadpark.no",
	"c2i.net",
	"chello.no",
	"tele2.no",
	"epost.no",
	"altibox.no",
	"lyse.net",
})

// IsConsumer reports whether domain belongs to the canonical list of
// consumer mail providers. Unknown domains classify as not-consumer.
func IsConsumer(domain string) bool {
	_, ok := canonical[sanitizer.NormalizeDomain(domain)]
	return ok
}

// IsConsumerFast checks the frontend subset only. Cheaper to replicate in
// clients, strictly less complete than IsConsumer.
func IsConsumerFast(domain string) bool {
	_, ok := frontendSubset[sanitizer.NormalizeDomain(domain)]
	return ok
}

func toSet(domains []string) map[string]struct{} {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[d] = struct{}{}
	}
	return set
}
