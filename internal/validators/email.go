package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

// Resolver is the part of net.Resolver used to check e-mail domains.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomainResolver can be swapped in tests.
var EmailDomainResolver Resolver = net.DefaultResolver

const lookupTimeout = 3 * time.Second

// IsEmailDomainValid reports whether the domain of email has an MX or A record.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	if mx, err := EmailDomainResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := EmailDomainResolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
