package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lukman-h/routewise/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]interface{}

func (api *plannerAPI) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func (api *plannerAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message

	js, err := json.Marshal(resp)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(js)
}

func (api *plannerAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api *plannerAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.String("path", r.URL.Path), zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError, "internal_error",
		"the server encountered a problem and could not process your request")
}

// getStatusCode maps a service error to an HTTP response by its code.
func (api *plannerAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	switch util.CodeOf(err) {
	case util.ErrBadParamInput:
		api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
	case util.ErrNotFound, util.ErrPathNotFound:
		api.errorResponse(w, r, http.StatusNotFound, "not_found", err.Error())
	case util.ErrAddressResolution:
		api.errorResponse(w, r, http.StatusUnprocessableEntity, "address_unresolved", err.Error())
	case util.ErrRouteSource:
		api.errorResponse(w, r, http.StatusBadGateway, "route_source_unavailable", err.Error())
	case util.ErrAlgorithmTimeout:
		api.errorResponse(w, r, http.StatusGatewayTimeout, "algorithm_timeout", err.Error())
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	out := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		out = append(out, errors.New(e.Translate(trans)))
	}
	return out
}
