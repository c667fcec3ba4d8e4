// Package gojson loads JSON documents, a subset of YAML, with
// github.com/goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/shapeyaml/internal/issue"
	"github.com/reoring/shapeyaml/node"
)

// Driver loads a stream of JSON values, one document per value.
type Driver struct{}

// Name identifies the driver.
func (Driver) Name() string { return "go-json" }

// Load parses every JSON value in data.
func (Driver) Load(data []byte) ([]*node.Node, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var docs []*node.Node
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, syntaxError(err)
		}
		doc, err := value(dec, tok)
		if err != nil {
			return nil, syntaxError(err)
		}
		docs = append(docs, doc)
	}
}

func syntaxError(err error) error {
	return issue.New(issue.CodeFormat, "%v", err).Wrap(err)
}

func value(dec *j.Decoder, tok j.Token) (*node.Node, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return object(dec)
		case '[':
			return array(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case string:
		return node.NewString(v), nil
	case bool:
		return node.NewBool(v), nil
	case j.Number:
		return number(string(v)), nil
	case float64:
		return node.NewReal(fmt.Sprint(v)), nil
	case nil:
		return node.NewNull(), nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func number(s string) *node.Node {
	if strings.ContainsAny(s, ".eE") {
		return node.NewReal(s)
	}
	return node.IntOrReal(s)
}

func object(dec *j.Decoder) (*node.Node, error) {
	n := &node.Node{Kind: node.Mapping}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return n, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		tok, err = dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		v, err := value(dec, tok)
		if err != nil {
			return nil, err
		}
		n.Pairs = append(n.Pairs, node.Pair{Key: node.NewString(key), Value: v})
	}
}

func array(dec *j.Decoder) (*node.Node, error) {
	n := &node.Node{Kind: node.Sequence, Items: []*node.Node{}}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return n, nil
		}
		v, err := value(dec, tok)
		if err != nil {
			return nil, err
		}
		n.Items = append(n.Items, v)
	}
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
