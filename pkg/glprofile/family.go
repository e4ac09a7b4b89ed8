// SPDX-License-Identifier: MIT

package glprofile

import (
	"errors"
	"fmt"
)

const (
	// FamilyGL is desktop OpenGL.
	FamilyGL Family = "gl"
	// FamilyGLES1 is OpenGL ES 1.x.
	FamilyGLES1 Family = "gles1"
	// FamilyGLES2 is OpenGL ES 2.0 and later.
	FamilyGLES2 Family = "gles2"
	// FamilyGLX is the X11 window-system binding.
	FamilyGLX Family = "glx"
	// FamilyEGL is the EGL window-system binding.
	FamilyEGL Family = "egl"
	// FamilyWGL is the Windows window-system binding.
	FamilyWGL Family = "wgl"
	// FamilyGLSC2 is OpenGL SC 2.0. The registry declares it but no
	// dispatch is generated for it.
	FamilyGLSC2 Family = "glsc2"
)

// ErrUnknownFamily is returned when a registry names a platform family the
// policy table does not know. It is wrapped by UnknownFamilyError for
// errors.Is() compatibility.
var ErrUnknownFamily = errors.New("unknown platform family")

type (
	// Family identifies a platform family named by registry feature and
	// extension blocks. The set is closed: values outside the declared
	// constants are a typed parse failure, never an unhandled branch.
	Family string

	// UnknownFamilyError reports a family tag outside the closed set.
	UnknownFamilyError struct {
		// Name is the unrecognized family tag.
		Name string
	}
)

var knownFamilies = map[Family]bool{
	FamilyGL:    true,
	FamilyGLES1: true,
	FamilyGLES2: true,
	FamilyGLX:   true,
	FamilyEGL:   true,
	FamilyWGL:   true,
	FamilyGLSC2: true,
}

func (e *UnknownFamilyError) Error() string {
	return fmt.Sprintf("unknown platform family %q", e.Name)
}

// Unwrap returns ErrUnknownFamily for errors.Is() checks.
func (e *UnknownFamilyError) Unwrap() error {
	return ErrUnknownFamily
}

// ParseFamily validates a raw family tag against the closed family set.
func ParseFamily(s string) (Family, error) {
	f := Family(s)
	if !knownFamilies[f] {
		return "", &UnknownFamilyError{Name: s}
	}
	return f, nil
}

// String returns the registry tag for the family.
func (f Family) String() string {
	return string(f)
}
