// Copyright (c) 2025 Fashionstore
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"fmt"
	"strings"
)

// Error is a provider failure. Code is an "auth/..." identifier; Message is the
// text shown to the user.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Codes surfaced by this package outside of the REST error mapping.
const (
	CodeNetworkRequestFailed = "auth/network-request-failed"
	CodePopupClosedByUser    = "auth/popup-closed-by-user"
	CodeTimeout              = "auth/timeout"
	CodeOperationNotAllowed  = "auth/operation-not-allowed"
	CodeInternalError        = "auth/internal-error"
	CodeUserNotFound         = "auth/user-not-found"
)

// serverCodes maps Identity Toolkit error messages to client codes.
var serverCodes = map[string]string{
	"EMAIL_EXISTS":                   "auth/email-already-in-use",
	"EMAIL_NOT_FOUND":                CodeUserNotFound,
	"INVALID_PASSWORD":               "auth/wrong-password",
	"INVALID_LOGIN_CREDENTIALS":      "auth/invalid-credential",
	"INVALID_IDP_RESPONSE":           "auth/invalid-credential",
	"USER_DISABLED":                  "auth/user-disabled",
	"TOO_MANY_ATTEMPTS_TRY_LATER":    "auth/too-many-requests",
	"WEAK_PASSWORD":                  "auth/weak-password",
	"INVALID_EMAIL":                  "auth/invalid-email",
	"MISSING_PASSWORD":               "auth/missing-password",
	"MISSING_EMAIL":                  "auth/missing-email",
	"OPERATION_NOT_ALLOWED":          CodeOperationNotAllowed,
	"PASSWORD_LOGIN_DISABLED":        CodeOperationNotAllowed,
	"TOKEN_EXPIRED":                  "auth/user-token-expired",
	"USER_NOT_FOUND":                 "auth/user-token-expired",
	"INVALID_ID_TOKEN":               "auth/invalid-user-token",
	"INVALID_REFRESH_TOKEN":          "auth/invalid-user-token",
	"CREDENTIAL_TOO_OLD_LOGIN_AGAIN": "auth/requires-recent-login",
	"API_KEY_INVALID":                "auth/invalid-api-key",
}

// newError builds an Error from codeOrMessage. A message of the form
// "WEAK_PASSWORD : Password should be at least 6 characters" keeps the detail text.
func newError(codeOrMessage string, cause error) *Error {
	serverCode, detail, _ := strings.Cut(codeOrMessage, " : ")
	serverCode = strings.TrimSpace(serverCode)

	code, ok := serverCodes[serverCode]
	if !ok {
		switch {
		case strings.HasPrefix(serverCode, "auth/"):
			code = serverCode
		case strings.HasPrefix(strings.ToLower(serverCode), "api key not valid"):
			code = "auth/invalid-api-key"
			detail = ""
		case serverCode == "":
			code = CodeInternalError
		default:
			code = "auth/" + strings.ReplaceAll(strings.ToLower(serverCode), "_", "-")
		}
	}

	msg := fmt.Sprintf("Firebase: Error (%s).", code)
	if detail = strings.TrimSpace(detail); detail != "" {
		msg = fmt.Sprintf("Firebase: %s (%s).", detail, code)
	}
	return &Error{Code: code, Message: msg, Err: cause}
}
