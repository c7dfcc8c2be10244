package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"tiffin-route-service/internal/platform/obs"
	"tiffin-route-service/internal/ports"
	"tiffin-route-service/internal/services"
)

var (
	validate = validator.New()
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      "request validation failed",
		ErrValidation:  vv,
	}
}

func ErrNotFound(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      "internal server error",
	}
}

// renderError maps service errors onto HTTP responses. Only unexpected
// failures are logged; their detail never reaches the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		_ = render.Render(w, r, ErrInvalidRequest(ve))
	case errors.Is(err, ports.ErrNotFound):
		_ = render.Render(w, r, ErrNotFound(err))
	default:
		obs.L(r.Context()).WithError(err).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			Error("request failed")
		_ = render.Render(w, r, ErrInternalServerError(err))
	}
}

func translateError(err error) []error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []error{err}
	}
	out := make([]error, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, errors.New(e.Translate(trans)))
	}
	return out
}

type normalizer interface{ Normalize() }

// decodeAndValidate decodes a single JSON object from the body into v and runs
// struct validation on it. It renders the error response itself and reports
// whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(fmt.Errorf("invalid json body: %w", err)))
		return false
	}
	if n, ok := v.(normalizer); ok {
		n.Normalize()
	}
	if err := validate.Struct(v); err != nil {
		_ = render.Render(w, r, ErrValidation(err, translateError(err)))
		return false
	}
	return true
}
