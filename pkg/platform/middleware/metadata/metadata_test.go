package metadata

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"warden/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "forwarded chain", header: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, remote: "1.1.1.1:80", want: "10.0.0.1"},
		{name: "real ip", header: map[string]string{"X-Real-IP": " 10.0.0.9 "}, remote: "1.1.1.1:80", want: "10.0.0.9"},
		{name: "ipv4 remote", remote: "192.168.1.5:5555", want: "192.168.1.5"},
		{name: "ipv6 remote", remote: "[::1]:5555", want: "::1"},
		{name: "no port", remote: "192.168.1.5", want: "192.168.1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(r))
		})
	}
}

func TestClientMetadataSetsContext(t *testing.T) {
	var ip, agent string
	h := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		agent = requestcontext.ClientAgent(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "172.16.0.3:1234"
	r.Header.Set("User-Agent", firefoxLinux)
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "172.16.0.3", ip)
	assert.Equal(t, "Firefox 121.0 on Linux x86_64", agent)
}

const firefoxLinux = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

func TestDescribeUserAgent(t *testing.T) {
	assert.Empty(t, DescribeUserAgent("  "))
	assert.Equal(t, "Firefox 121.0 on Linux x86_64", DescribeUserAgent(firefoxLinux))

	chrome := DescribeUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Contains(t, chrome, "Chrome 120.0.0.0")
	assert.Contains(t, chrome, "Windows")

	bot := DescribeUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.True(t, strings.HasPrefix(bot, "bot: "), bot)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
