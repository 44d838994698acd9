// internal/app/system/addressing/addressing.go
// Package addressing derives the user-facing clone addresses shown alongside
// a repository. Purely derived from configuration, owner, and name; no state.
package addressing

import (
	"fmt"
	"strings"
)

// Provider builds SSH-style and HTTPS-style addresses for repositories.
type Provider struct {
	SSHHost    string
	SSHPort    int
	SSHEnabled bool
	BaseURL    string // e.g. "https://gitshelf.example.com", no trailing slash
}

// New creates an address Provider.
func New(sshHost string, sshPort int, sshEnabled bool, baseURL string) *Provider {
	return &Provider{
		SSHHost:    sshHost,
		SSHPort:    sshPort,
		SSHEnabled: sshEnabled,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SSH returns the ssh:// clone address for (ownerID, name), or nil when SSH
// serving is disabled.
func (p *Provider) SSH(ownerID, name string) *string {
	if !p.SSHEnabled {
		return nil
	}
	addr := fmt.Sprintf("ssh://%s:%d/%s/%s", p.SSHHost, p.SSHPort, ownerID, name)
	return &addr
}

// HTTP returns the browsable repository address for (ownerID, name).
func (p *Provider) HTTP(ownerID, name string) string {
	return fmt.Sprintf("%s/repository/%s/%s", p.BaseURL, ownerID, name)
}
