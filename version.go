package tokenswap

import "fmt"

// Release numbers of the ledger and its programs.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit is injected at build time with
// -ldflags "-X github.com/iov-one/tokenswap.GitCommit=<hash>".
var GitCommit = ""

// Version returns the release followed by the commit it was built from,
// if known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit == "" {
		return v
	}
	return v + " " + GitCommit
}
