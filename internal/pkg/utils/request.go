package utils

import (
	"bowell-service/internal/pkg/exceptions"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

var schemaDecoder = newSchemaDecoder()

func newSchemaDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

// ParseURLParamID reads a positive integer id from the chi route params.
func ParseURLParamID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, exceptions.ErrURLParamIDValidation(errors.New("parameter is missing from url path"), paramName)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, exceptions.ErrURLParamIDValidation(err, paramName)
	}
	if id <= 0 {
		return 0, exceptions.ErrURLParamIDValidation(errors.New("id must be positive"), paramName)
	}
	return id, nil
}

func DecodeQuery(dst interface{}, values url.Values) error {
	if err := schemaDecoder.Decode(dst, values); err != nil {
		return exceptions.ErrCannotParseQuery(err)
	}
	return nil
}

func DecodeForm(dst interface{}, values map[string][]string) error {
	if err := schemaDecoder.Decode(dst, values); err != nil {
		return exceptions.ErrCannotParseMultipartForm(err)
	}
	return nil
}
