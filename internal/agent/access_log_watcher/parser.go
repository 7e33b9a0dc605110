package access_log_watcher

import (
	"strconv"
	"strings"

	"github.com/okieraised/alert-watcher/internal/utilities"
)

// Record is one parsed access-log entry.
type Record struct {
	Pool                 string
	Release              string
	UpstreamStatus       int
	UpstreamAddr         string
	RequestTime          float64
	UpstreamResponseTime float64
}

// ParseLine splits a pipe-delimited access-log line into a Record.
// Expected format, extra fields ignored:
//
//	pool|release|upstream_status|upstream_addr|request_time|upstream_response_time|...
//	blue|Blue-v1.0.0|200|172.19.0.2:80|0.003|0.002|...
//
// An empty status coerces to 0 and empty timings to 0.0; a line with fewer
// than 6 fields or a non-numeric status/timing is rejected.
func ParseLine(line string) (Record, bool) {
	fields := utilities.SplitAndTrim(strings.TrimSpace(line), "|")
	if len(fields) < 6 {
		return Record{}, false
	}

	rec := Record{
		Pool:         fields[0],
		Release:      fields[1],
		UpstreamAddr: fields[3],
	}

	if fields[2] != "" {
		status, err := strconv.Atoi(fields[2])
		if err != nil {
			return Record{}, false
		}
		rec.UpstreamStatus = status
	}

	if fields[4] != "" {
		v, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return Record{}, false
		}
		rec.RequestTime = v
	}

	if fields[5] != "" {
		v, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return Record{}, false
		}
		rec.UpstreamResponseTime = v
	}

	return rec, true
}
