package domains

import (
	"strings"

	"go.uber.org/zap"
)

// Checker tells whether a sender belongs to one of the configured customer domains
type Checker struct {
	domains map[string]struct{}
	logger  *zap.Logger
}

// NewChecker creates a new known-domain checker
func NewChecker(domains []string, logger *zap.Logger) *Checker {
	set := make(map[string]struct{}, len(domains))
	normalized := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.ToLower(strings.TrimSpace(domain))
		domain = strings.TrimPrefix(domain, "@")
		if domain == "" {
			continue
		}
		set[domain] = struct{}{}
		normalized = append(normalized, domain)
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized known domain checker", zap.Strings("domains", normalized))
	}

	return &Checker{
		domains: set,
		logger:  logger,
	}
}

// IsKnown reports whether the address's domain, or a parent of it, is configured
func (c *Checker) IsKnown(address string) bool {
	if c == nil || len(c.domains) == 0 {
		return false
	}

	at := strings.LastIndexByte(address, '@')
	if at < 0 || at == len(address)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(address[at+1:]))

	for {
		if _, ok := c.domains[domain]; ok {
			if c.logger != nil {
				c.logger.Debug("Sender domain is known",
					zap.String("domain", domain),
					zap.String("email", address))
			}
			return true
		}
		dot := strings.IndexByte(domain, '.')
		if dot < 0 {
			return false
		}
		domain = domain[dot+1:]
	}
}
