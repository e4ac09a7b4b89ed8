// SPDX-License-Identifier: MIT

// Package glregistry parses the Khronos API registry XML files (gl.xml,
// glx.xml, egl.xml, wgl.xml) into raw entities: typedefs, enum constants
// and their groups, commands with ordered parameters and declared alias
// targets, version features, and extensions.
//
// The package performs no policy decisions beyond the registry trivia that
// is inseparable from parsing (redundant api-tagged typedef declarations,
// enum constants that collide with wingdi.h, win32 reserved parameter
// names). Everything downstream, such as availability conditions, loader
// mechanisms, and filtering, belongs to glprofile and the pipeline.
package glregistry
