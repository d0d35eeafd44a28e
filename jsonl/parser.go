package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"

	"github.com/go-riffle/riffle"
)

// ParserConf configures a JSONL Parser, suitable for JSON Lines data
type ParserConf struct {
	Comment      rune // Lines beginning with the comment character are ignored. Defaults to no comment character.
	MaxLineBytes int  // Maximum size in bytes of the buffer used to read lines. Defaults to bufio.MaxScanTokenSize.
}

// Parser extracts values from JSONL data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new JSONL Parser. Values are extracted from each line of JSON using a gjson path. Blank lines are ignored.
func CreateParser(conf *ParserConf) *Parser {
	if conf.MaxLineBytes == 0 {
		conf.MaxLineBytes = bufio.MaxScanTokenSize
	}
	return &Parser{conf: conf}
}

// eachLine scans r line by line, passing each non-blank, non-comment line to
// fn together with its 1-based line number
func (p *Parser) eachLine(r io.Reader, fn func(line int, data string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		data := strings.TrimSpace(scanner.Text())
		if len(data) == 0 {
			continue
		}
		if p.conf.Comment != 0 {
			if first, _ := utf8.DecodeRuneInString(data); first == p.conf.Comment {
				continue
			}
		}
		if err := fn(line, data); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// extract locates the value at a gjson path within one line of JSON
func extract(line int, data string, path string) (gjson.Result, error) {
	if !gjson.Valid(data) {
		return gjson.Result{}, fmt.Errorf("line %d is not valid JSON", line)
	}
	res := gjson.Get(data, path)
	if !res.Exists() {
		return gjson.Result{}, fmt.Errorf("line %d has no value at path %s", line, path)
	}
	return res, nil
}

// Strings extracts the string value at path from each line of r
func (p *Parser) Strings(r io.Reader, path string) ([]string, error) {
	var out []string
	err := p.eachLine(r, func(line int, data string) error {
		res, err := extract(line, data, path)
		if err != nil {
			return err
		}
		if res.Type != gjson.String {
			return fmt.Errorf("line %d value at path %s was not a string. Was: %s", line, path, res.Raw)
		}
		out = append(out, res.String())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Floats extracts the numeric value at path from each line of r
func (p *Parser) Floats(r io.Reader, path string) ([]float64, error) {
	var out []float64
	err := p.eachLine(r, func(line int, data string) error {
		res, err := extract(line, data, path)
		if err != nil {
			return err
		}
		if res.Type != gjson.Number {
			return fmt.Errorf("line %d value at path %s was not a number. Was: %s", line, path, res.Raw)
		}
		out = append(out, res.Float())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Pairs extracts a string key at keyPath and a numeric value at valuePath
// from each line of r
func (p *Parser) Pairs(r io.Reader, keyPath string, valuePath string) ([]riffle.Pair[string, float64], error) {
	var out []riffle.Pair[string, float64]
	err := p.eachLine(r, func(line int, data string) error {
		key, err := extract(line, data, keyPath)
		if err != nil {
			return err
		}
		if key.Type != gjson.String {
			return fmt.Errorf("line %d key at path %s was not a string. Was: %s", line, keyPath, key.Raw)
		}
		value, err := extract(line, data, valuePath)
		if err != nil {
			return err
		}
		if value.Type != gjson.Number {
			return fmt.Errorf("line %d value at path %s was not a number. Was: %s", line, valuePath, value.Raw)
		}
		out = append(out, riffle.CreatePair(key.String(), value.Float()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
