package probe

import (
	"github.com/sirupsen/logrus"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/check/dns"
	httpcheck "github.com/kylerisse/uptui/pkg/check/http"
	"github.com/kylerisse/uptui/pkg/check/tcp"
	"github.com/kylerisse/uptui/pkg/monitor"
)

// Version is reported in the User-Agent of HTTP probes.
// It is set at build time with -ldflags "-X ...probe.Version=<v>".
var Version = "dev"

// UserAgent returns the User-Agent sent by HTTP probes.
func UserAgent() string {
	return "uptui/" + Version
}

// DefaultRegistry returns a registry with the http, tcp and dns checks.
func DefaultRegistry(logger logrus.FieldLogger) *check.Registry {
	reg := check.NewRegistry()

	// Registration into a fresh registry cannot collide.
	_ = reg.Register(monitor.KindHTTP, httpcheck.NewFactory(httpcheck.WithUserAgent(UserAgent())))
	_ = reg.Register(monitor.KindTCP, tcp.NewFactory(tcp.WithLogger(logger)))
	_ = reg.Register(monitor.KindDNS, dns.Factory)

	return reg
}
