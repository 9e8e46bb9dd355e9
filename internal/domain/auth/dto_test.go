package auth

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	req := RegisterRequest{
		Name:       "  Alice  ",
		Email:      " Alice@Example.COM ",
		Password:   "secret",
		Department: " Engineering ",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Alice", req.Name)
	assert.Equal(t, "alice@example.com", req.Email)
	assert.Equal(t, "Engineering", req.Department)
}

func TestRegisterRequest_ValidateErrors(t *testing.T) {
	req := RegisterRequest{Email: "not-an-email", Password: "12345"}
	err := req.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "department")
}

func TestLoginRequest_Validate(t *testing.T) {
	req := LoginRequest{Email: "BOB@example.com", Password: "x"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "bob@example.com", req.Email)

	req = LoginRequest{Email: "bob@example.com"}
	assert.ErrorContains(t, req.Validate(), "password")
}

func TestCreateManagerRequest_Validate(t *testing.T) {
	req := CreateManagerRequest{
		Name:       "Manager",
		Email:      "manager@example.com",
		Password:   "manager123",
		Department: "Management",
		EmployeeID: "mgr001",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "MGR001", req.EmployeeID)

	req.EmployeeID = "M-1"
	assert.ErrorContains(t, req.Validate(), "employee_id")
}

func TestRefreshTokenRequest_Validate(t *testing.T) {
	req := RefreshTokenRequest{}
	assert.Error(t, req.Validate())
	req.RefreshToken = "abc"
	assert.NoError(t, req.Validate())
}
