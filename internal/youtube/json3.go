package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
)

// json3 is YouTube's timed-text format as served by the caption URLs.
type json3 struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	Segs []json3Seg `json:"segs,omitempty"`
}

type json3Seg struct {
	UTF8 string `json:"utf8"`
}

// parseJSON3 concatenates the caption segments of a json3 document into one
// single-spaced string.
func parseJSON3(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("json3: empty input")
	}
	var doc json3
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("json3: decode: %w", err)
	}
	var sb strings.Builder
	for _, ev := range doc.Events {
		for _, seg := range ev.Segs {
			sb.WriteString(seg.UTF8)
		}
		sb.WriteString(" ")
	}
	return strings.Join(strings.Fields(sb.String()), " "), nil
}
