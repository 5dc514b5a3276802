package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 { return &v }

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		def      Definition
		kind     Kind
		specName string
		address  string
		err      string
	}{
		{
			name:     "http is the default type",
			def:      Definition{Name: "site", URL: "https://example.com"},
			kind:     KindHTTP,
			specName: "site",
			address:  "https://example.com",
		},
		{
			name:     "name falls back to url",
			def:      Definition{URL: "https://example.com"},
			kind:     KindHTTP,
			specName: "https://example.com",
			address:  "https://example.com",
		},
		{
			name:    "http missing url",
			def:     Definition{Type: "http"},
			kind:    KindHTTP,
			address: "",
			err:     "missing url",
		},
		{
			name:     "tcp",
			def:      Definition{Name: "ssh", Type: "tcp", Host: "10.0.0.1", Port: 22},
			kind:     KindTCP,
			specName: "ssh",
			address:  "10.0.0.1:22",
		},
		{
			name:     "tcp type is case insensitive",
			def:      Definition{Type: " TCP ", Host: "db", Port: 5432},
			kind:     KindTCP,
			specName: "db:5432",
			address:  "db:5432",
		},
		{
			name:     "tcp missing port",
			def:      Definition{Name: "ssh", Type: "tcp", Host: "10.0.0.1"},
			kind:     KindTCP,
			specName: "ssh",
			address:  "10.0.0.1:",
			err:      "missing host/port",
		},
		{
			name:     "tcp missing host",
			def:      Definition{Name: "ssh", Type: "tcp", Port: 22},
			kind:     KindTCP,
			specName: "ssh",
			address:  ":22",
			err:      "missing host/port",
		},
		{
			name:     "tcp port out of range",
			def:      Definition{Name: "bad", Type: "tcp", Host: "h", Port: 70000},
			kind:     KindTCP,
			specName: "bad",
			address:  "h:70000",
			err:      "invalid port",
		},
		{
			name:     "tcp non-positive timeout",
			def:      Definition{Name: "bad", Type: "tcp", Host: "h", Port: 1, Timeout: float(0)},
			kind:     KindTCP,
			specName: "bad",
			address:  "h:1",
			err:      "invalid timeout",
		},
		{
			name:     "dns defaults",
			def:      Definition{Type: "dns", Host: "example.com"},
			kind:     KindDNS,
			specName: "example.com A @1.1.1.1:53",
			address:  "example.com A @1.1.1.1:53",
		},
		{
			name:     "dns server without port",
			def:      Definition{Name: "r", Type: "dns", Host: "example.com", Server: "9.9.9.9", Record: "aaaa"},
			kind:     KindDNS,
			specName: "r",
			address:  "example.com AAAA @9.9.9.9:53",
		},
		{
			name:     "dns unsupported record",
			def:      Definition{Name: "r", Type: "dns", Host: "example.com", Record: "SRV"},
			kind:     KindDNS,
			specName: "r",
			address:  "example.com SRV @1.1.1.1:53",
			err:      "invalid record",
		},
		{
			name:     "dns missing host",
			def:      Definition{Name: "r", Type: "dns"},
			kind:     KindDNS,
			specName: "r",
			address:  " A @1.1.1.1:53",
			err:      "missing host",
		},
		{
			name:     "unknown type",
			def:      Definition{Name: "x", Type: "icmp"},
			kind:     KindHTTP,
			specName: "x",
			err:      `unknown type "icmp"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			spec := Parse(test.def)

			require.NotNil(t, spec.Target)
			assert.Equal(t, test.kind, spec.Kind())
			assert.Equal(t, test.specName, spec.Name)
			assert.Equal(t, test.address, spec.Address())

			if test.err == "" {
				assert.NoError(t, spec.Err)
				assert.True(t, spec.Valid())
			} else {
				assert.EqualError(t, spec.Err, test.err)
				assert.False(t, spec.Valid())
			}
		})
	}
}

func TestParse_TCPTimeout(t *testing.T) {
	spec := Parse(Definition{Type: "tcp", Host: "h", Port: 1})
	require.NoError(t, spec.Err)
	assert.Equal(t, DefaultTCPTimeout, spec.Target.(TCPTarget).Timeout)

	spec = Parse(Definition{Type: "tcp", Host: "h", Port: 1, Timeout: float(0.25)})
	require.NoError(t, spec.Err)
	assert.Equal(t, 250*time.Millisecond, spec.Target.(TCPTarget).Timeout)
}

func TestParse_FieldErrorIsTyped(t *testing.T) {
	spec := Parse(Definition{Type: "tcp", Host: "h"})

	var fieldErr *FieldError
	require.True(t, errors.As(spec.Err, &fieldErr))
	assert.Equal(t, "host/port", fieldErr.Field)
	assert.False(t, fieldErr.Invalid)
}

func TestParseAll_PreservesOrder(t *testing.T) {
	defs := []Definition{
		{Name: "a", URL: "http://a"},
		{Name: "b", Type: "tcp"},
		{Name: "c", Type: "tcp", Host: "c", Port: 1},
	}

	specs := ParseAll(defs)

	require.Len(t, specs, 3)
	assert.Equal(t, "a", specs[0].Name)
	assert.Equal(t, "b", specs[1].Name)
	assert.Error(t, specs[1].Err)
	assert.Equal(t, "c", specs[2].Name)
}

func TestParseAll_Empty(t *testing.T) {
	specs := ParseAll(nil)
	assert.NotNil(t, specs)
	assert.Empty(t, specs)
}
