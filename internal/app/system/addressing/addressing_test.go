package addressing_test

import (
	"testing"

	"github.com/marcuwynu23/gitshelf/internal/app/system/addressing"
)

func TestSSH_Enabled(t *testing.T) {
	p := addressing.New("git.example.com", 2222, true, "https://example.com")

	got := p.SSH("alice", "demo.git")
	if got == nil {
		t.Fatal("SSH() = nil, want address")
	}
	want := "ssh://git.example.com:2222/alice/demo.git"
	if *got != want {
		t.Errorf("SSH() = %q, want %q", *got, want)
	}
}

func TestSSH_Disabled(t *testing.T) {
	p := addressing.New("git.example.com", 2222, false, "https://example.com")

	if got := p.SSH("alice", "demo.git"); got != nil {
		t.Errorf("SSH() = %q, want nil when SSH is disabled", *got)
	}
}

func TestHTTP(t *testing.T) {
	p := addressing.New("git.example.com", 2222, true, "https://example.com/")

	got := p.HTTP("alice", "demo.git")
	want := "https://example.com/repository/alice/demo.git"
	if got != want {
		t.Errorf("HTTP() = %q, want %q", got, want)
	}
}
