// Package services holds the business operations behind the HTTP handlers.
// Every service takes its *gorm.DB at construction and scopes each query to
// the caller's context.
package services

import (
	"errors"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/mailer"
	"gorm.io/gorm"
)

// MailQueue accepts outbound mail without blocking. *mailer.Dispatcher implements it.
type MailQueue interface {
	Enqueue(msg mailer.Message) bool
}

// lookupErr turns a gorm lookup failure into NotFound or Internal.
func lookupErr(err error, notFound, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(notFound)
	}
	return apperr.Internal(op, err)
}

func dbErr(op string, err error) error {
	return apperr.Internal(op, err)
}
