package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"go-erp/internal/shared/dberr"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'uq_payroll_entry_run_user'"}

	assert.True(t, dberr.IsDuplicateKey(dup))
	assert.True(t, dberr.IsDuplicateKey(fmt.Errorf("insert: %w", dup)))
	assert.True(t, dberr.IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.False(t, dberr.IsDuplicateKey(&mysql.MySQLError{Number: 1452}))
	assert.False(t, dberr.IsDuplicateKey(errors.New("boom")))
	assert.False(t, dberr.IsDuplicateKey(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, dberr.IsNotFound(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)))
	assert.False(t, dberr.IsNotFound(errors.New("x")))
}
