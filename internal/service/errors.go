package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrProfileNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "profile")
}

func NewErrProjectNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "project")
}

func NewErrEndorsementNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "endorsement")
}

type ErrOperationNotFound struct {
	error
}

func NewErrOperationNotFound(operationID string) *ErrOperationNotFound {
	return &ErrOperationNotFound{fmt.Errorf("operation %s not found", operationID)}
}

type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("bad request: %s", message)}
}

func NewErrSelfEndorsement(id uuid.UUID) *ErrInvalidRequest {
	return NewErrInvalidRequest(fmt.Sprintf("profile %s cannot endorse itself", id))
}

type ErrAlreadyExists struct {
	error
}

func NewErrUsernameTaken(username string) *ErrAlreadyExists {
	return &ErrAlreadyExists{fmt.Errorf("username %q is already taken", username)}
}
