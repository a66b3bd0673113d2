package database

import (
	stderrors "errors"
	"strings"

	"github.com/lib/pq"

	"github.com/resumekit/resumekit-backend/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError.
// Returns nil if err does not wrap a *pq.Error or the code is not mapped.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !stderrors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case "23514": // check_violation
		return mapCheckConstraint(pqErr)

	case "23505": // unique_violation
		return errors.Conflict(uniqueMessage(pqErr.Constraint))

	case "23503": // foreign_key_violation
		return errors.BadRequest("referenced record does not exist")

	case "23502": // not_null_violation
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	switch {
	case strings.Contains(pqErr.Constraint, "email_format"):
		return errors.Validation(map[string]string{
			"email": "must be a valid email address",
		})
	case strings.Contains(pqErr.Constraint, "section_type_valid"):
		return errors.Validation(map[string]string{
			"section_type": "must be one of: education, experience, skills, projects, summary, certifications",
		})
	default:
		return errors.BadRequest("data validation failed: " + pqErr.Constraint)
	}
}

func uniqueMessage(constraint string) string {
	switch {
	case strings.Contains(constraint, "email"):
		return "an account with this email already exists"
	case strings.Contains(constraint, "position"):
		return "a section already occupies this position"
	default:
		return "a record with these values already exists"
	}
}
