package access_log_watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Record
		ok   bool
	}{
		{
			name: "well formed line",
			line: "blue|Blue-v1.0.0|200|172.19.0.2:80|0.003|0.002",
			want: Record{
				Pool:                 "blue",
				Release:              "Blue-v1.0.0",
				UpstreamStatus:       200,
				UpstreamAddr:         "172.19.0.2:80",
				RequestTime:          0.003,
				UpstreamResponseTime: 0.002,
			},
			ok: true,
		},
		{
			name: "surrounding whitespace trimmed",
			line: "  green | Green-v2.1.0 | 503 | 172.19.0.3:80 | 0.100 | 0.099  \n",
			want: Record{
				Pool:                 "green",
				Release:              "Green-v2.1.0",
				UpstreamStatus:       503,
				UpstreamAddr:         "172.19.0.3:80",
				RequestTime:          0.1,
				UpstreamResponseTime: 0.099,
			},
			ok: true,
		},
		{
			name: "extra fields ignored",
			line: "blue|Blue-v1.0.0|200|172.19.0.2:80|0.003|0.002|GET /api|extra",
			want: Record{
				Pool:                 "blue",
				Release:              "Blue-v1.0.0",
				UpstreamStatus:       200,
				UpstreamAddr:         "172.19.0.2:80",
				RequestTime:          0.003,
				UpstreamResponseTime: 0.002,
			},
			ok: true,
		},
		{
			name: "empty status and timings coerce to zero",
			line: "blue|Blue-v1.0.0||172.19.0.2:80||",
			want: Record{
				Pool:         "blue",
				Release:      "Blue-v1.0.0",
				UpstreamAddr: "172.19.0.2:80",
			},
			ok: true,
		},
		{
			name: "too few fields",
			line: "blue|Blue-v1.0.0|200|172.19.0.2:80|0.003",
			ok:   false,
		},
		{
			name: "empty line",
			line: "",
			ok:   false,
		},
		{
			name: "blank line",
			line: "   \n",
			ok:   false,
		},
		{
			name: "non-numeric status",
			line: "blue|Blue-v1.0.0|abc|172.19.0.2:80|0.003|0.002",
			ok:   false,
		},
		{
			name: "non-numeric request time",
			line: "blue|Blue-v1.0.0|200|172.19.0.2:80|fast|0.002",
			ok:   false,
		},
		{
			name: "non-numeric upstream response time",
			line: "blue|Blue-v1.0.0|200|172.19.0.2:80|0.003|slow",
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseLine(tc.line)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
