package project

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 2000
)

// Normalize trims surrounding whitespace from the writable fields.
func (u Update) Normalize() Update {
	return Update{
		Name:        strings.TrimSpace(u.Name),
		Description: strings.TrimSpace(u.Description),
	}
}

// Validate checks the field limits. The returned error wraps
// ErrInvalidProject; errors.As into validation.Errors gives per-field detail.
func (u Update) Validate() error {
	err := validation.ValidateStruct(&u,
		validation.Field(&u.Name, validation.Required, validation.RuneLength(1, maxNameLength)),
		validation.Field(&u.Description, validation.RuneLength(0, maxDescriptionLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	return nil
}

// Validate normalises and checks the fields of p.
func Validate(p *Project) error {
	u := Update{Name: p.Name, Description: p.Description}.Normalize()
	if err := u.Validate(); err != nil {
		return err
	}
	u.Apply(p)
	return nil
}
