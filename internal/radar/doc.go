// Attackmap - Live Network Attack Arc Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/attackmap

/*
Package radar is the client for the upstream threat-intelligence API that
reports layer 7 attack volume between country pairs.

A fetch issues one authenticated GET for the top attacks in a time window:

	client, err := radar.NewClient(radar.Config{Token: os.Getenv("CLOUDFLARE_API_TOKEN")})
	res, err := client.Fetch(ctx, radar.FetchOptions{Limit: 50})

The request carries limit, format=json and either a dateRange token ("1h",
"7d") or an explicit dateStart/dateEnd pair. When no window is configured
the client asks for the last hour.

# Response shape

The upstream wraps results in an envelope whose "result" object holds one or
more buckets ("top_0", "top_1", ...) of records plus an optional "meta"
object. Bucket names are not relied upon: every list-valued entry is read as
records, in document order. Each record becomes an Arc; records missing a
country code are dropped and missing or non-numeric values become 0.

# Errors

Every failure is a *FetchError whose Kind is transport, status, parse or
circuit_open. None of them are fatal; the refresh loop replaces failed
fetches with synthetic arcs.

CircuitBreakerClient wraps Client with sony/gobreaker so that repeated
failures stop reaching the upstream until the breaker half-opens.
*/
package radar
