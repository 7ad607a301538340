package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskNino(t *testing.T) {
	assert.Equal(t, "QQ******C", MaskNino("QQ123456C"))
	assert.Equal(t, "", MaskNino(""))
	assert.Equal(t, "***", MaskNino("QQ1"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("jane.doe@example.com"))
	assert.Equal(t, "*****", MaskEmail("@host"))
	assert.Equal(t, "****", MaskEmail("jane"))
}

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4", "192.168.1.47", "192.168.1.0"},
		{"ipv4 with port", "10.1.2.3:54321", "10.1.2.0"},
		{"ipv4 mapped ipv6", "::ffff:172.16.50.255", "172.16.50.0"},
		{"ipv6", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"ipv6 with port", "[fe80::1]:8080", "fe80::"},
		{"empty", "", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AnonymizeIP(tc.input))
		})
	}
}
