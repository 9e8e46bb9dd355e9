package report

import (
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRequest_Validate(t *testing.T) {
	req := ExportRequest{}
	require.NoError(t, req.Validate())
	assert.Equal(t, "csv", req.Format)

	req = ExportRequest{Format: " XLSX "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "xlsx", req.Format)

	blank := " "
	req = ExportRequest{EmployeeID: &blank}
	require.NoError(t, req.Validate())
	assert.Nil(t, req.EmployeeID)
}

func TestExportRequest_ValidateErrors(t *testing.T) {
	start, end := "2024-02-10", "2024-02-01"
	req := ExportRequest{Format: "pdf", StartDate: &start, EndDate: &end}

	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "format")
	assert.Contains(t, fields, "end_date")
}
