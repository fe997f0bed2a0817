package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/washline-backend/pkg/errors"
	"github.com/angelmondragon/washline-backend/pkg/types"
)

// Query reads trimmed query parameters. Optional getters return nil for a
// blank value; Required getters fail with CodeValidation naming the field.
type Query struct {
	values map[string][]string
}

// QueryOf wraps the request's query string.
func QueryOf(r *http.Request) Query {
	return Query{values: r.URL.Query()}
}

// String returns the trimmed value of key.
func (q Query) String(key string) string {
	if vs := q.values[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Int parses key within [min, max], returning def when blank.
func (q Query) Int(key string, def, min, max int) (int, error) {
	raw := q.String(key)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

func (q Query) OptionalUUID(key string) (*uuid.UUID, error) {
	raw := q.String(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, InvalidQuery(err, key)
	}
	return &id, nil
}

func (q Query) RequiredUUID(key string) (uuid.UUID, error) {
	id, err := q.OptionalUUID(key)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, MissingQuery(key)
	}
	return *id, nil
}

// OptionalBool accepts the forms strconv.ParseBool does.
func (q Query) OptionalBool(key string) (*bool, error) {
	raw := q.String(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, InvalidQuery(err, key)
	}
	return &value, nil
}

// OptionalDate parses a YYYY-MM-DD value.
func (q Query) OptionalDate(key string) (*types.Date, error) {
	raw := q.String(key)
	if raw == "" {
		return nil, nil
	}
	date, err := types.ParseDate(raw)
	if err != nil {
		return nil, InvalidQuery(err, key)
	}
	return &date, nil
}

func (q Query) RequiredDate(key string) (types.Date, error) {
	date, err := q.OptionalDate(key)
	if err != nil {
		return types.Date{}, err
	}
	if date == nil {
		return types.Date{}, MissingQuery(key)
	}
	return *date, nil
}

func MissingQuery(key string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "query parameter required").WithDetails(map[string]any{"field": key})
}

func InvalidQuery(err error, key string) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid query parameter").WithDetails(map[string]any{"field": key})
}
