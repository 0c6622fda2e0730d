package policy

import (
	"testing"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	admin := &models.User{ID: 1, IsAdmin: true}
	plain := &models.User{ID: 2}

	tests := []struct {
		name   string
		actor  *models.User
		op     Operation
		target uint
		want   error
	}{
		{"self reads me", plain, ReadSelf, 0, nil},
		{"admin reads me", admin, ReadSelf, 0, nil},
		{"plain reads own id", plain, ReadOther, 2, nil},
		{"plain reads other id", plain, ReadOther, 1, nil},
		{"admin reads other id", admin, ReadOther, 2, nil},
		{"admin lists", admin, ReadList, 0, nil},
		{"plain lists", plain, ReadList, 0, common.ErrForbidden},
		{"plain updates self", plain, Update, 2, nil},
		{"plain updates other", plain, Update, 1, common.ErrForbidden},
		{"admin updates other", admin, Update, 2, nil},
		{"plain deletes self", plain, Delete, 2, nil},
		{"plain deletes other", plain, Delete, 3, common.ErrForbidden},
		{"admin deletes other", admin, Delete, 2, nil},
		{"unknown operation", admin, Operation(42), 2, common.ErrForbidden},
		{"no actor", nil, ReadSelf, 0, common.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.op, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestAuthorize_ForbiddenIsNotUnauthenticated(t *testing.T) {
	err := Authorize(&models.User{ID: 2}, ReadList, 0)
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.NotErrorIs(t, err, common.ErrUnauthenticated)
}

func TestCanChangeAdminFlag(t *testing.T) {
	assert.True(t, CanChangeAdminFlag(&models.User{IsAdmin: true}))
	assert.False(t, CanChangeAdminFlag(&models.User{}))
	assert.False(t, CanChangeAdminFlag(nil))
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "read-list", ReadList.String())
	assert.Equal(t, "operation(9)", Operation(9).String())
}
