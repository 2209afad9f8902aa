package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Kind groups failures by what the caller can do about them.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindConflict
	KindNetwork
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by Client to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return KindValidation
		case http.StatusUnauthorized, http.StatusForbidden:
			return KindUnauthorized
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusConflict:
			return KindConflict
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return KindTimeout
		}
		return KindUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") {
		return KindTimeout
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) || strings.Contains(msg, "network error") {
		return KindNetwork
	}
	return KindUnknown
}

// Op names the user action an error came from.
type Op string

const (
	OpLogin    Op = "login"
	OpRegister Op = "register"
	OpCheckout Op = "checkout"
	OpGeneric  Op = "generic"
)

// Languages supported by UserMessage. Anything else falls back to LangES.
const (
	LangES = "es"
	LangEN = "en"
)

type messageKey struct {
	op   Op
	kind Kind
}

var messages = map[string]map[messageKey]string{
	LangES: {
		{OpLogin, KindUnauthorized}:   "Email o contraseña incorrectos.",
		{OpLogin, KindUnknown}:        "No se pudo iniciar sesión. Inténtalo de nuevo.",
		{OpRegister, KindConflict}:    "Este email ya está registrado.",
		{OpRegister, KindValidation}:  "Revisa los datos del formulario.",
		{OpRegister, KindUnknown}:     "No se pudo completar el registro. Inténtalo de nuevo.",
		{OpCheckout, KindConflict}:    "Algunos productos ya no están disponibles.",
		{OpCheckout, KindUnknown}:     "Hubo un problema al procesar tu pedido.",
		{OpGeneric, KindTimeout}:      "Tiempo de espera agotado. Verifica tu conexión.",
		{OpGeneric, KindNetwork}:      "No se pudo conectar al servidor. Verifica tu conexión a internet.",
		{OpGeneric, KindUnauthorized}: "Tu sesión ha expirado. Inicia sesión de nuevo.",
		{OpGeneric, KindNotFound}:     "No se encontró el recurso solicitado.",
		{OpGeneric, KindUnknown}:      "Ocurrió un error inesperado. Inténtalo de nuevo.",
	},
	LangEN: {
		{OpLogin, KindUnauthorized}:   "Incorrect email or password.",
		{OpLogin, KindUnknown}:        "Could not sign in. Please try again.",
		{OpRegister, KindConflict}:    "This email is already registered.",
		{OpRegister, KindValidation}:  "Please check the form data.",
		{OpRegister, KindUnknown}:     "Could not complete registration. Please try again.",
		{OpCheckout, KindConflict}:    "Some products are no longer available.",
		{OpCheckout, KindUnknown}:     "There was a problem processing your order.",
		{OpGeneric, KindTimeout}:      "The request timed out. Check your connection.",
		{OpGeneric, KindNetwork}:      "Could not reach the server. Check your internet connection.",
		{OpGeneric, KindUnauthorized}: "Your session has expired. Please sign in again.",
		{OpGeneric, KindNotFound}:     "The requested resource was not found.",
		{OpGeneric, KindUnknown}:      "Something went wrong. Please try again.",
	},
}

// UserMessage renders err as a message for the end user. Transport failures
// read the same for every op; otherwise the op-specific text wins over the
// generic one for the same kind, then the op's fallback, then the generic
// fallback.
func UserMessage(err error, op Op, lang string) string {
	table, ok := messages[lang]
	if !ok {
		table = messages[LangES]
	}
	kind := Classify(err)

	if kind == KindTimeout || kind == KindNetwork {
		return table[messageKey{OpGeneric, kind}]
	}
	for _, key := range []messageKey{{op, kind}, {OpGeneric, kind}, {op, KindUnknown}} {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	return table[messageKey{OpGeneric, KindUnknown}]
}
