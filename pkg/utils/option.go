// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package utils

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Option is a loosely typed bag of settings keyed by dotted names such as
// "speaker.language".
type Option map[string]interface{}

func (o Option) GetString(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", fmt.Errorf("option: key %s not found", key)
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case fmt.Stringer:
		return val.String(), nil
	default:
		return fmt.Sprintf("%v", val), nil
	}
}

// With returns a copy of o with key set to value.
func (o Option) With(key string, value interface{}) Option {
	out := make(Option, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	out[key] = value
	return out
}

// Decode copies the option values into out using mapstructure tags.
func (o Option) Decode(out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
		TagName:          "option",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(map[string]interface{}(o))
}
