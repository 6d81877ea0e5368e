package backend

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/google/uuid"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// Decode copies a record into out, a pointer to a struct tagged with
// `mapstructure:"column"`. Ids and timestamps may arrive as strings.
func Decode(record Record, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToUUIDHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(map[string]any(record)); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// DecodeAll decodes every record into a new T.
func DecodeAll[T any](records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for _, r := range records {
		var item T
		if err := Decode(r, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func stringToUUIDHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != uuidType {
		return data, nil
	}

	switch v := data.(type) {
	case string:
		if v == "" {
			return uuid.Nil, nil
		}
		return uuid.Parse(v)
	case [16]byte:
		return uuid.UUID(v), nil
	}
	return data, nil
}
