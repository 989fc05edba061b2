// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package request provides helpers to safely extract data from incoming HTTP requests.

It centralizes the decoding of JSON bodies, URL parameters, multipart forms,
and authenticated identity claims so that domain handlers stay declarative.
*/
package request

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/ctxutil"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/platform/validate"
)

// # Body Decoding

// DecodeJSON decodes the request body into the provided destination struct.
func DecodeJSON(request *http.Request, destination any) error {

	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(destination); err != nil {
		return validate.ErrInvalidJSON
	}

	return nil
}

// # URL Parameters

// Param returns the named chi route parameter as a string.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// ID parses the named route parameter as a positive integer identifier.
func ID(request *http.Request, name string) (int, error) {

	raw := chi.URLParam(request, name)

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, apperr.ValidationError("Invalid identifier").
			WithFields(map[string]string{name: "Must be a positive integer"})
	}

	return value, nil
}

// QueryInt parses an optional integer query parameter. A missing or empty
// parameter returns (0, false, nil).
func QueryInt(request *http.Request, name string) (int, bool, error) {

	raw := request.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, false, apperr.ValidationError("Invalid query parameter").
			WithFields(map[string]string{name: "Must be a positive integer"})
	}

	return value, true, nil
}

// # Identity Claims

// Claims returns the verified identity in the context, or nil for anonymous requests.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredClaims returns the verified identity or an Unauthorized error.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

// RequiredUserID returns the authenticated user's ID or an Unauthorized error.
func RequiredUserID(request *http.Request) (string, error) {

	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}
