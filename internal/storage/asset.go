package storage

import (
	"fmt"
	"regexp"

	"github.com/pixil98/go-errors"
)

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

// ValidatingSpec is implemented by anything a store can load.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the on-disk envelope for one record in a FileStore.
type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Id() string {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	if a.Version == 0 {
		el.Add(fmt.Errorf("version must be set"))
	}

	if a.Identifier == "" {
		el.Add(fmt.Errorf("id must be set"))
	}

	if !ValidIdentifier(a.Identifier) {
		el.Add(fmt.Errorf("id must be alphanumeric"))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}

// ValidIdentifier reports whether id is safe to use as a record file name.
func ValidIdentifier(id string) bool {
	return identifierPattern.MatchString(id)
}
