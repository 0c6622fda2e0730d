// Package policy decides which user operations an actor may perform.
//
// Self-service is always allowed: a user reads, updates and deletes their own
// record. Listing users and acting on someone else's record need the admin
// flag, except reading a single record by id which any authenticated user may
// do.
package policy

import (
	"fmt"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/models"
)

type Operation int

const (
	ReadSelf Operation = iota
	ReadOther
	ReadList
	Update
	Delete
)

func (op Operation) String() string {
	switch op {
	case ReadSelf:
		return "read-self"
	case ReadOther:
		return "read-other"
	case ReadList:
		return "read-list"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// Authorize returns nil when actor may perform op on the user identified by
// targetID. targetID is ignored for ReadSelf and ReadList.
func Authorize(actor *models.User, op Operation, targetID uint) error {
	if actor == nil {
		return common.Errorf(common.ErrUnauthenticated, "no se pudo identificar al usuario")
	}

	switch op {
	case ReadSelf, ReadOther:
		return nil
	case ReadList:
		if actor.IsAdmin {
			return nil
		}
		return common.Errorf(common.ErrForbidden, "se requiere rol de administrador")
	case Update, Delete:
		if actor.IsAdmin || actor.ID == targetID {
			return nil
		}
		return common.Errorf(common.ErrForbidden, "no tiene permisos sobre este usuario")
	default:
		return common.Errorf(common.ErrForbidden, "operación desconocida %s", op)
	}
}

// CanChangeAdminFlag reports whether actor may set es_admin on any record,
// their own included.
func CanChangeAdminFlag(actor *models.User) bool {
	return actor != nil && actor.IsAdmin
}
