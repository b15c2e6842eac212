// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

package radar

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/attackmap/internal/metrics"
	"github.com/tomtom215/attackmap/internal/models"
)

// Record field names in the upstream payload.
const (
	FieldOrigin = "originCountryAlpha2"
	FieldTarget = "targetCountryAlpha2"
	FieldValue  = "value"

	metaKey = "meta"
)

type envelope struct {
	Success *bool           `json:"success"`
	Result  json.RawMessage `json:"result"`
	Errors  []apiMessage    `json:"errors"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ParseEnvelope decodes a full upstream response body:
//
//	{"success": true, "result": {"top_0": [...], "meta": {...}}, "errors": []}
//
// A body that is not JSON, has no result object, or reports success=false is
// a parse failure.
func ParseEnvelope(r io.Reader) (*Result, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, transportError(err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, parseError("failed to decode response: %w", err)
	}
	if env.Success != nil && !*env.Success {
		return nil, parseError("upstream reported failure: %s", joinMessages(env.Errors))
	}

	raw := bytes.TrimSpace(env.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, parseError("response has no result object")
	}
	return ParseResult(raw)
}

// ParseResult extracts arcs from the result object.
//
// Bucket names are not part of the contract: every value of the object is
// visited in document order and every value that is a list is read as a
// list of records. Records without an origin or target code are dropped. A
// missing or non-numeric value becomes 0. The "meta" value, when it is an
// object, is passed through untouched.
//
// The object is walked token by token so that arcs keep the order the
// upstream ranked them in across buckets.
func ParseResult(raw []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, parseError("failed to read result: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, parseError("result is not an object")
	}

	res := &Result{Arcs: []models.Arc{}}
	dropped := 0

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, parseError("failed to read result key: %w", err)
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, parseError("failed to read result[%q]: %w", key, err)
		}

		if key == metaKey {
			res.Meta = decodeMeta(value)
		}

		rows, ok := decodeList(value)
		if !ok {
			continue
		}
		for _, row := range rows {
			res.Records++
			arc, ok := arcFromRecord(row)
			if !ok {
				dropped++
				continue
			}
			res.Arcs = append(res.Arcs, arc)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, parseError("unterminated result object: %w", err)
	}

	if dropped > 0 {
		metrics.UpstreamRecordsDropped.Add(float64(dropped))
	}
	metrics.UpstreamArcsParsed.Observe(float64(len(res.Arcs)))
	return res, nil
}

func decodeList(value []byte) ([]interface{}, bool) {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || value[0] != '[' {
		return nil, false
	}
	var rows []interface{}
	if err := json.Unmarshal(value, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func decodeMeta(value []byte) map[string]interface{} {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || value[0] != '{' {
		return nil
	}
	var meta map[string]interface{}
	if err := json.Unmarshal(value, &meta); err != nil {
		return nil
	}
	return meta
}

// arcFromRecord converts one record. Records that are not objects or lack
// either code are rejected.
func arcFromRecord(row interface{}) (models.Arc, bool) {
	rec, ok := row.(map[string]interface{})
	if !ok {
		return models.Arc{}, false
	}
	origin := countryCode(rec[FieldOrigin])
	target := countryCode(rec[FieldTarget])
	if origin == "" || target == "" {
		return models.Arc{}, false
	}
	return models.Arc{Origin: origin, Target: target, Magnitude: magnitude(rec[FieldValue])}, true
}

func countryCode(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return models.NormalizeCountryCode(s)
}

// magnitude accepts JSON numbers and numeric strings ("12.5"); anything else
// is 0.
func magnitude(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return models.ClampMagnitude(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return models.ClampMagnitude(f)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return models.ClampMagnitude(f)
	default:
		return 0
	}
}

func joinMessages(msgs []apiMessage) string {
	if len(msgs) == 0 {
		return "no error details"
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Code != 0 {
			parts = append(parts, strconv.Itoa(m.Code)+": "+m.Message)
			continue
		}
		parts = append(parts, m.Message)
	}
	return strings.Join(parts, "; ")
}
