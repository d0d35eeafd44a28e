// Package jsonl parses JSON Lines data into element slices for pipeline sources. This parser uses https://github.com/tidwall/gjson to extract values, and supports value locations formatted as gjson paths.
package jsonl
