package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/roadsearch/pkg/engine/routing"
	"github.com/lintang-b-s/roadsearch/pkg/util"
	"go.uber.org/zap"
)

type envelope map[string]any

func (api *routingAPI) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
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

func (api *routingAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	if err := api.writeJSON(w, status, resp, nil); err != nil {
		api.log.Error("write error response", zap.String("path", r.URL.Path), zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *routingAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}

func (api *routingAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.String("method", r.Method), zap.String("path", r.URL.Path),
		zap.Error(err))
	api.errorResponse(w, r, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", util.MessageInternalServerError)
}

// getStatusCode maps service errors to a status and error code.
func (api *routingAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	message := err.Error()
	var uerr *util.Error
	code := util.ErrInternalServerError
	if errors.As(err, &uerr) {
		code = uerr.Code()
		message = uerr.Error()
	}

	switch {
	case errors.Is(err, routing.ErrUnreachable):
		api.errorResponse(w, r, http.StatusNotFound, "PATH_NOT_FOUND", message)
	case errors.Is(err, routing.ErrNodeNotFound):
		api.errorResponse(w, r, http.StatusNotFound, "NODE_NOT_FOUND", message)
	case errors.Is(err, routing.ErrCancelled) || errors.Is(code, util.ErrServiceUnavailable):
		api.errorResponse(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message)
	case errors.Is(code, util.ErrNotFound):
		api.errorResponse(w, r, http.StatusNotFound, "NOT_FOUND", message)
	case errors.Is(code, util.ErrBadParamInput):
		api.errorResponse(w, r, http.StatusBadRequest, "BAD_REQUEST", message)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		translatedErr := fmt.Errorf("%s", e.Translate(trans))
		errs = append(errs, translatedErr)
	}
	return errs
}
