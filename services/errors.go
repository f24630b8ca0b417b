package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ServiceError is an error category. Controllers map categories to HTTP
// status codes with errors.Is.
type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	ErrValidation   ServiceError = "dados inválidos"
	ErrNotFound     ServiceError = "registro não encontrado"
	ErrConflict     ServiceError = "conflito com registro existente"
	ErrForbidden    ServiceError = "operação não permitida"
	ErrUnauthorized ServiceError = "credenciais inválidas"
)

// Error carries a user-facing message under a category.
type Error struct {
	Kind    ServiceError
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind ServiceError, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func validationf(format string, args ...interface{}) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrInvalidCredentials   = newError(ErrUnauthorized, "Email ou senha inválidos")
	ErrAdminNotFound        = newError(ErrNotFound, "Administrador não encontrado")
	ErrAdminEmailTaken      = newError(ErrConflict, "Email já cadastrado")
	ErrAdminDeleteSelf      = newError(ErrForbidden, "Você não pode excluir a si mesmo")
	ErrAdminDeleteDefault   = newError(ErrForbidden, "O administrador padrão não pode ser excluído")
	ErrAdminResetNotPending = newError(ErrForbidden, "Redefinição não solicitada para este administrador")

	ErrUserNotFound   = newError(ErrNotFound, "Usuário não encontrado")
	ErrUserEmailTaken = newError(ErrConflict, "Email já cadastrado")
	ErrUserInUse      = newError(ErrConflict, "Usuário possui agendamentos vinculados")

	ErrZoneNotFound  = newError(ErrNotFound, "Zona não encontrada")
	ErrZoneNameTaken = newError(ErrConflict, "Já existe uma zona com esse nome")
	ErrZoneInUse     = newError(ErrConflict, "Zona possui endereços vinculados")
	ErrZoneMissing   = newError(ErrValidation, "Zona informada não existe")

	ErrClientNotFound    = newError(ErrNotFound, "Cliente não encontrado")
	ErrClientPhoneTaken  = newError(ErrConflict, "Telefone já cadastrado")
	ErrClientQRTaken     = newError(ErrConflict, "QR code já cadastrado")
	ErrClientInUse       = newError(ErrConflict, "Cliente possui agendamentos vinculados")
	ErrClientWithoutZone = newError(ErrValidation, "Cliente não possui zona vinculada")

	ErrAppointmentNotFound    = newError(ErrNotFound, "Agendamento não encontrado")
	ErrNoPendingAppointment   = newError(ErrNotFound, "Nenhum agendamento pendente para este cliente")
	ErrPendingAlreadyExists   = newError(ErrConflict, "Cliente já possui um agendamento pendente")
	ErrAppointmentTerminal    = newError(ErrConflict, "Agendamento já finalizado")
	ErrRealizedBeforeSchedule = newError(ErrValidation, "Data de realização anterior à data agendada")
	ErrDateInPast             = newError(ErrValidation, "Não é possível agendar para uma data passada")

	ErrMissingPeriod = newError(ErrValidation, "Informe o período (startDate e endDate).")
	ErrInvalidPeriod = newError(ErrValidation, "Período inválido: a data final é anterior à inicial")
)

// storeError turns driver constraint violations into conflicts and wraps
// anything else with the operation name.
func storeError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return newError(ErrConflict, "Registro duplicado")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return newError(ErrConflict, "Registro possui vínculos")
	}
	return fmt.Errorf("%s: %w", op, err)
}
