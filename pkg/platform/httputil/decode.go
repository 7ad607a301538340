package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	dErrors "trsync/pkg/domain-errors"
	"trsync/pkg/platform/validation"
)

// DecodeJSON decodes a single JSON object from the request body.
// On failure it writes a bad_request response and returns nil, false.
//
//	req, ok := httputil.DecodeJSON[models.CreateTeacherRequest](w, r, h.logger, ctx, requestID)
//	if !ok {
//	    return
//	}
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, validation.MaxBodySize))
	err := dec.Decode(&req)
	if err == nil && dec.More() {
		err = errTrailingData
	}
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"error", err,
			"request_id", requestID,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, decodeMessage(err)))
		return nil, false
	}
	return &req, true
}

var errTrailingData = errors.New("trailing data after request object")

// decodeMessage names what was wrong with a body without echoing its content.
func decodeMessage(err error) string {
	var (
		tooLarge  *http.MaxBytesError
		typeError *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooLarge):
		return "request body too large"
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.Is(err, errTrailingData):
		return "request body must hold a single JSON object"
	case errors.As(err, &typeError) && typeError.Field != "":
		return fmt.Sprintf("%s must be a JSON %s", typeError.Field, jsonKind(typeError.Type.Kind()))
	default:
		return "invalid request body"
	}
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map, reflect.Pointer:
		return "object"
	default:
		return "number"
	}
}

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// PrepareRequest normalizes and then validates a request.
func PrepareRequest(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare decodes the JSON body, then calls Normalize() and Validate()
// if the target type implements those interfaces.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	return DecodeBindAndPrepare[T](w, r, logger, ctx, requestID, nil)
}

// DecodeBindAndPrepare is DecodeAndPrepare with a bind step between decoding
// and validation, for fields taken from the path such as the teacher id.
func DecodeBindAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string, bind func(*T)) (*T, bool) {
	req, ok := DecodeJSON[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}
	if bind != nil {
		bind(req)
	}

	if err := PrepareRequest(req); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"error", err,
			"request_id", requestID,
		)
		// keep the code of domain errors raised by Validate
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			WriteError(w, err)
		} else {
			WriteError(w, dErrors.New(dErrors.CodeValidation, err.Error()))
		}
		return nil, false
	}

	return req, true
}
