package ruleset

import (
	"bytes"
	"errors"
	"io"

	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// decode strictly unmarshals a YAML document into out. An empty document leaves out untouched.
func decode(file string, data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(zerr.Wrap(err, domain.ErrDefinitionParseFailed.Error()), "file", file)
	}
	return nil
}
