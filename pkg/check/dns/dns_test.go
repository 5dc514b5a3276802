package dns

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/kylerisse/uptui/pkg/check"
	"github.com/kylerisse/uptui/pkg/monitor"
)

// startTestServer starts an in-process UDP DNS server on a random port.
// The provided handler is called for every incoming query. The server
// is shut down automatically when the test ends.
func startTestServer(t *testing.T, handler func(dns.ResponseWriter, *dns.Msg)) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: dns.HandlerFunc(handler), NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func answerA(ip string) func(dns.ResponseWriter, *dns.Msg) {
	return func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.Answer = append(m.Answer, &dns.A{
			Hdr: dns.RR_Header{Name: r.Question[0].Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
			A:   net.ParseIP(ip),
		})
		_ = w.WriteMsg(m)
	}
}

func TestNew_Valid(t *testing.T) {
	chk, err := New("127.0.0.1:53", "example.com.", "aaaa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chk.Type() != TypeName {
		t.Errorf("expected type %q, got %q", TypeName, chk.Type())
	}
	if chk.name != "example.com" {
		t.Errorf("expected trailing dot to be stripped, got %q", chk.name)
	}
	if chk.qtype != dns.TypeAAAA {
		t.Errorf("expected AAAA, got %d", chk.qtype)
	}
	if chk.timeout != DefaultTimeout {
		t.Errorf("expected default timeout, got %v", chk.timeout)
	}
}

func TestNew_EmptyName(t *testing.T) {
	_, err := New("127.0.0.1:53", "", "A")
	var fieldErr *monitor.FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "host" {
		t.Errorf("expected missing host, got %v", err)
	}
}

func TestNew_EmptyServer(t *testing.T) {
	if _, err := New("", "example.com", "A"); err == nil {
		t.Error("expected error for empty server")
	}
}

func TestNew_UnsupportedType(t *testing.T) {
	if _, err := New("127.0.0.1:53", "example.com", "SRV"); err == nil {
		t.Error("expected error for unsupported record type")
	}
}

func TestNew_WithTimeout(t *testing.T) {
	chk, err := New("127.0.0.1:53", "example.com", "A", WithTimeout(7*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chk.timeout != 7*time.Second {
		t.Errorf("expected timeout 7s, got %v", chk.timeout)
	}
	if chk.client.Timeout != 7*time.Second {
		t.Errorf("expected client timeout 7s, got %v", chk.client.Timeout)
	}
}

func TestNew_WithTimeoutZero(t *testing.T) {
	if _, err := New("127.0.0.1:53", "example.com", "A", WithTimeout(0)); err == nil {
		t.Error("expected error for zero timeout")
	}
}

func TestParseQType(t *testing.T) {
	cases := map[string]uint16{
		"":      dns.TypeA,
		"a":     dns.TypeA,
		"AAAA":  dns.TypeAAAA,
		"cname": dns.TypeCNAME,
		"MX":    dns.TypeMX,
		"NS":    dns.TypeNS,
		"TXT":   dns.TypeTXT,
	}
	for in, want := range cases {
		got, err := parseQType(in)
		if err != nil {
			t.Errorf("parseQType(%q): unexpected error %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseQType(%q): expected %d, got %d", in, want, got)
		}
	}
}

func TestRun_Up(t *testing.T) {
	addr := startTestServer(t, answerA("1.2.3.4"))

	chk, err := New(addr, "example.com", "A", WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := chk.Run(context.Background())
	if result.Outcome != check.OutcomeUp {
		t.Fatalf("expected up, got %v (%v)", result.Outcome, result.Err)
	}
	if result.Latency < 0 {
		t.Errorf("expected non-negative latency, got %v", result.Latency)
	}
}

func TestRun_NXDomainIsDown(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		m.Rcode = dns.RcodeNameError
		_ = w.WriteMsg(m)
	})

	chk, _ := New(addr, "nonexistent.example.com", "A", WithTimeout(time.Second))
	result := chk.Run(context.Background())
	if result.Outcome != check.OutcomeDown {
		t.Fatalf("expected down, got %v (%v)", result.Outcome, result.Err)
	}
	if result.Code != "NXDOMAIN" {
		t.Errorf("expected code NXDOMAIN, got %q", result.Code)
	}
}

func TestRun_EmptyAnswerIsDown(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		_ = w.WriteMsg(m)
	})

	chk, _ := New(addr, "example.com", "MX", WithTimeout(time.Second))
	result := chk.Run(context.Background())
	if result.Outcome != check.OutcomeDown {
		t.Fatalf("expected down, got %v", result.Outcome)
	}
	if result.Code != CodeNoAnswer {
		t.Errorf("expected code %q, got %q", CodeNoAnswer, result.Code)
	}
}

func TestRun_NoReplyTimesOut(t *testing.T) {
	addr := startTestServer(t, func(w dns.ResponseWriter, r *dns.Msg) {
		// drop the query
	})

	chk, _ := New(addr, "example.com", "A", WithTimeout(50*time.Millisecond))
	result := chk.Run(context.Background())
	if result.Outcome != check.OutcomeFailed {
		t.Fatalf("expected failed, got %v", result.Outcome)
	}
	if result.Category != check.CategoryTimeout {
		t.Errorf("expected timeout category, got %q (%v)", result.Category, result.Err)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	addr := startTestServer(t, answerA("1.2.3.4"))

	chk, err := New(addr, "example.com", "A")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := chk.Run(ctx)
	if result.Outcome == check.OutcomeUp {
		t.Error("expected failure with cancelled context")
	}
}

func TestRcodeName(t *testing.T) {
	if got := rcodeName(dns.RcodeServerFailure); got != "SERVFAIL" {
		t.Errorf("expected SERVFAIL, got %q", got)
	}
	if got := rcodeName(4000); got != "RCODE4000" {
		t.Errorf("expected RCODE4000, got %q", got)
	}
}

func TestFactory_DNSTarget(t *testing.T) {
	chk, err := Factory(monitor.DNSTarget{Name: "example.com", Server: "9.9.9.9:53", Record: "A", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dnsChk := chk.(*Check)
	if dnsChk.server != "9.9.9.9:53" {
		t.Errorf("expected server 9.9.9.9:53, got %q", dnsChk.server)
	}
	if dnsChk.timeout != 2*time.Second {
		t.Errorf("expected timeout 2s, got %v", dnsChk.timeout)
	}
}

func TestFactory_WrongTarget(t *testing.T) {
	if _, err := Factory(monitor.TCPTarget{Host: "h", Port: 1}); err == nil {
		t.Error("expected error for non-dns target")
	}
}

func TestRegistryIntegration(t *testing.T) {
	reg := check.NewRegistry()
	if err := reg.Register(monitor.KindDNS, Factory); err != nil {
		t.Fatalf("failed to register dns: %v", err)
	}
	chk, err := reg.Create(monitor.DNSTarget{Name: "example.com", Server: "127.0.0.1:53", Record: "A"})
	if err != nil {
		t.Fatalf("failed to create dns check: %v", err)
	}
	if chk.Type() != TypeName {
		t.Errorf("expected type %q, got %q", TypeName, chk.Type())
	}
}

func TestCheckInterface(t *testing.T) {
	var _ check.Check = &Check{}
}
