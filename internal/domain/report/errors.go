package report

import "github.com/kaizen/backend/internal/domain/shared"

// Report error codes
const (
	CodeIncompleteReport = "INCOMPLETE_REPORT"
	CodeReportFinal      = "REPORT_FINAL"
)

// Report errors
var (
	ErrIncompleteReport    = shared.NewDomainError(CodeIncompleteReport, "Report needs at least a title before it can be finalized")
	ErrReportFinal         = shared.NewDomainError(CodeReportFinal, "Report is final; reopen it to make corrections")
	ErrIdentifierImmutable = shared.NewDomainError("IDENTIFIER_IMMUTABLE", "Report already carries a different identifier")
)
