package shared

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the catalog key.
const (
	MsgGeneric            = "An unexpected error occurred. Please try again."
	MsgDuplicate          = "A record with the same data already exists."
	MsgForeignKey         = "The record is linked to other data and cannot be changed."
	MsgInsufficientStock  = "Insufficient stock for this operation."
	MsgRequired           = "A required field is missing."
	MsgInvalidValue       = "One of the values is not valid."
	MsgTimeout            = "The service took too long to respond. Please try again."
	MsgForbidden          = "You do not have permission to perform this action."
	MsgNotFound           = "The requested record was not found."
	MsgInvalidCredentials = "Invalid username, password or branch."
	MsgUnauthenticated    = "Your session has expired. Please sign in again."
	MsgMissingLogin       = "Username, password and branch are required."
	MsgLoggedOut          = "Session closed."
	MsgLogoutFailed       = "The session could not be closed."
	MsgNoBranch           = "Your account is not assigned to a branch."
	MsgBranchRequired     = "A branch must be selected."
	MsgInvalidRequest     = "The request could not be read."
	MsgTooManyRequests    = "Too many requests. Please wait a moment."
	MsgBatchFailed        = "%d of %d lines could not be posted."
	MsgBatchRejected      = "%d lines are invalid. Nothing was posted."
	MsgLineRequired       = "line %d: %s is required"
	MsgLineInvalid        = "line %d: %s is not valid"
	MsgFieldRequired      = "%s is required."
	MsgFieldInvalid       = "%s is not valid."
	MsgBranchMismatch     = "The record belongs to another branch."
	MsgAdminBranch        = "Branch users need a branch."
	MsgSelfDelete         = "You cannot delete your own account."
	MsgPasswordShort      = "The password must have at least 8 characters."
	MsgPasswordLong       = "The password must not exceed 72 bytes."
	MsgSaved              = "Saved."
	MsgDeleted            = "Deleted."
)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		MsgGeneric:            "Ocurrió un error inesperado. Intente nuevamente.",
		MsgDuplicate:          "Ya existe un registro con los mismos datos.",
		MsgForeignKey:         "El registro está vinculado a otros datos y no puede modificarse.",
		MsgInsufficientStock:  "Stock insuficiente para esta operación.",
		MsgRequired:           "Falta un campo obligatorio.",
		MsgInvalidValue:       "Uno de los valores no es válido.",
		MsgTimeout:            "El servicio tardó demasiado en responder. Intente nuevamente.",
		MsgForbidden:          "No tiene permiso para realizar esta acción.",
		MsgNotFound:           "No se encontró el registro solicitado.",
		MsgInvalidCredentials: "Usuario, contraseña o sucursal inválidos.",
		MsgUnauthenticated:    "Su sesión expiró. Inicie sesión nuevamente.",
		MsgMissingLogin:       "Usuario, contraseña y sucursal son obligatorios.",
		MsgLoggedOut:          "Sesión cerrada.",
		MsgLogoutFailed:       "No se pudo cerrar la sesión.",
		MsgNoBranch:           "Su cuenta no tiene una sucursal asignada.",
		MsgBranchRequired:     "Debe seleccionar una sucursal.",
		MsgInvalidRequest:     "No se pudo leer la solicitud.",
		MsgTooManyRequests:    "Demasiadas solicitudes. Espere un momento.",
		MsgBatchFailed:        "%d de %d líneas no pudieron registrarse.",
		MsgBatchRejected:      "%d líneas son inválidas. No se registró nada.",
		MsgLineRequired:       "línea %d: %s es obligatorio",
		MsgLineInvalid:        "línea %d: %s no es válido",
		MsgFieldRequired:      "%s es obligatorio.",
		MsgFieldInvalid:       "%s no es válido.",
		MsgBranchMismatch:     "El registro pertenece a otra sucursal.",
		MsgAdminBranch:        "Los usuarios de sucursal necesitan una sucursal.",
		MsgSelfDelete:         "No puede eliminar su propia cuenta.",
		MsgPasswordShort:      "La contraseña debe tener al menos 8 caracteres.",
		MsgPasswordLong:       "La contraseña no debe superar los 72 bytes.",
		MsgSaved:              "Guardado.",
		MsgDeleted:            "Eliminado.",
	},
}

// PostgreSQL SQLSTATE codes with a dedicated message.
var sqlStateMessages = map[string]string{
	"23505": MsgDuplicate,
	"23503": MsgForeignKey,
	"23502": MsgRequired,
	"23514": MsgInvalidValue,
	"22P02": MsgInvalidValue,
	"42501": MsgForbidden,
	"57014": MsgTimeout,
}

// Known fragments of driver and stored procedure errors, checked in order.
var substringMessages = []struct {
	fragment string
	message  string
}{
	{"duplicate key", MsgDuplicate},
	{"already exists", MsgDuplicate},
	{"foreign key", MsgForeignKey},
	{"insufficient stock", MsgInsufficientStock},
	{"stock insuficiente", MsgInsufficientStock},
	{"not-null", MsgRequired},
	{"null value", MsgRequired},
	{"check constraint", MsgInvalidValue},
	{"invalid input syntax", MsgInvalidValue},
	{"permission denied", MsgForbidden},
	{"statement timeout", MsgTimeout},
	{"timeout", MsgTimeout},
}

// ErrorTranslator turns internal errors into short localized messages that
// do not leak driver or schema details.
type ErrorTranslator struct {
	printer   *message.Printer
	exposeRaw bool
}

// NewErrorTranslator builds a translator for lang ("en", "es", ...). When
// exposeRaw is set, unrecognised errors are returned verbatim.
func NewErrorTranslator(lang string, exposeRaw bool) *ErrorTranslator {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			_ = builder.SetString(tag, key, msg)
		}
	}
	supported := []language.Tag{language.English, language.Spanish}
	tag := language.English
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, _ := language.NewMatcher(supported).Match(parsed)
		tag = supported[idx]
	}
	return &ErrorTranslator{
		printer:   message.NewPrinter(tag, message.Catalog(builder)),
		exposeRaw: exposeRaw,
	}
}

var defaultTranslator = NewErrorTranslator("en", false)

// UserSafeMessage converts err with the default production translator.
func UserSafeMessage(err error) string {
	return defaultTranslator.SafeMessage(err)
}

// Text localizes one of the Msg* keys.
func (t *ErrorTranslator) Text(key string, args ...any) string {
	if t == nil {
		return defaultTranslator.Text(key, args...)
	}
	return t.printer.Sprintf(key, args...)
}

// SafeMessage maps err to a caller-facing message.
func (t *ErrorTranslator) SafeMessage(err error) string {
	if t == nil {
		t = defaultTranslator
	}
	if err == nil {
		return ""
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return t.printer.Sprintf(userErr.Key, userErr.Args...)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return t.Text(MsgTimeout)
	case errors.Is(err, ErrInvalidCredentials):
		return t.Text(MsgInvalidCredentials)
	case errors.Is(err, ErrSessionInvalid):
		return t.Text(MsgUnauthenticated)
	case errors.Is(err, ErrNoBranchScope):
		return t.Text(MsgNoBranch)
	case errors.Is(err, ErrForbidden):
		return t.Text(MsgForbidden)
	case errors.Is(err, ErrNotFound):
		return t.Text(MsgNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if key, ok := sqlStateMessages[pgErr.Code]; ok {
			return t.Text(key)
		}
	}

	raw := strings.ToLower(err.Error())
	for _, candidate := range substringMessages {
		if strings.Contains(raw, candidate.fragment) {
			return t.Text(candidate.message)
		}
	}

	if t.exposeRaw {
		return err.Error()
	}
	return t.Text(MsgGeneric)
}
