// Package service holds the business operations behind each API route.
// Services take the authenticated caller as an argument, translate store
// errors into domain errors and never hold mutable state of their own.
package service

import (
	"github.com/listenupapp/lessons-server/internal/validation"
)

// validate is the shared request validator.
var validate = validation.New()
