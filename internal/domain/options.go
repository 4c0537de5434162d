package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

type Option struct {
	Name  string
	Value string
}

// Options is an option-name to option-value map that keeps upstream order.
// It serializes as a single JSON object whose keys appear in list order.
type Options []Option

func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(opt.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Options) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("options: expected json object")
	}

	out := Options{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return errors.New("options: expected string key")
		}

		var val string
		if err := dec.Decode(&val); err != nil {
			return err
		}

		out = append(out, Option{Name: key, Value: val})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = out
	return nil
}

// Get returns the value for name and whether it was present.
func (o Options) Get(name string) (string, bool) {
	for _, opt := range o {
		if opt.Name == name {
			return opt.Value, true
		}
	}
	return "", false
}
