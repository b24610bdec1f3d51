package resource

import "errors"

var errEmptyAuthority = errors.New("resource: empty authority in request-target")
