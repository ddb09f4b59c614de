package types

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags classify failures so that controllers can map them to a response status
var (
	ErrTagInvalidArgument   = goerr.NewTag("invalid_argument")
	ErrTagInvalidRepoFormat = goerr.NewTag("invalid_repository_format")
	ErrTagNotFound          = goerr.NewTag("not_found")
	ErrTagUnauthorized      = goerr.NewTag("unauthorized")
	ErrTagUnsupported       = goerr.NewTag("unsupported")
)

// HasTag reports whether err or any error it wraps carries the tag
var HasTag = goerr.HasTag
