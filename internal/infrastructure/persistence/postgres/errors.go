package postgres

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/alem-hub/academic-records/internal/domain/shared"
)

// SQLSTATE codes the repositories care about.
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeStringTooLong       = "22001"
	classIntegrity          = "23"
)

// classify maps a driver error onto the domain error taxonomy. Integrity
// failures become shared.ErrConstraintViolation, transport failures become
// shared.ErrStoreUnavailable. The driver error always stays in the chain.
func classify(domain, op string, err error) error {
	if err == nil {
		return nil
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, classIntegrity) || pgErr.Code == codeStringTooLong {
			return shared.WrapError(domain, op, shared.ErrConstraintViolation, constraintMessage(pgErr), err)
		}
		return fmt.Errorf("%s.%s: %w", domain, op, err)
	}

	if isConnectivity(err) {
		return shared.WrapError(domain, op, shared.ErrStoreUnavailable, "store is unreachable", err)
	}

	return fmt.Errorf("%s.%s: %w", domain, op, err)
}

func constraintMessage(pgErr *pgconn.PgError) string {
	var kind string
	switch pgErr.Code {
	case codeUniqueViolation:
		kind = "unique constraint"
	case codeForeignKeyViolation:
		kind = "foreign key constraint"
	case codeNotNullViolation:
		kind = "not-null constraint"
	case codeStringTooLong:
		return "value too long for column"
	default:
		kind = "integrity constraint"
	}
	if pgErr.ConstraintName != "" {
		return fmt.Sprintf("%s %q violated", kind, pgErr.ConstraintName)
	}
	return kind + " violated"
}

func isConnectivity(err error) bool {
	if errors.Is(err, ErrConnectionClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsUniqueViolation checks if the error is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsForeignKeyViolation checks if the error is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, codeForeignKeyViolation)
}

// IsNoRows checks if the error is a "no rows" error.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
