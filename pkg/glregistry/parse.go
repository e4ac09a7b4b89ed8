// SPDX-License-Identifier: MIT

package glregistry

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	// enumBlocklist names WGL constants whose hexadecimal registry values
	// collide with wingdi.h's decimal definitions of the same names.
	enumBlocklist = map[string]bool{
		"WGL_SWAP_OVERLAY":    true,
		"WGL_SWAP_UNDERLAY":   true,
		"WGL_SWAP_MAIN_PLANE": true,
	}

	// typedefKeepNamed names api-attributed typedefs that must be kept
	// despite carrying a name attribute. GLhandleARB is declared as void*
	// on Mac and uint32_t everywhere else, and generated code needs the
	// declaration present to paper over that.
	typedefKeepNamed = map[string]bool{
		"GLhandleARB": true,
	}

	// reservedParamNames rewrites parameter names that are keywords on
	// win32 ("near"/"far" are macros in windef.h).
	reservedParamNames = map[string]string{
		"near": "hither",
		"far":  "yon",
	}

	// groupedParamTypes are the parameter types whose semantic group tag
	// is meaningful to binding emitters.
	groupedParamTypes = map[string]bool{
		"GLenum":     true,
		"GLbitfield": true,
	}

	versionRE = regexp.MustCompile(`^([0-9])\.([0-9])`)
)

// ParseFile reads and parses a registry XML file.
func ParseFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}
	defer f.Close()

	reg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse parses a registry XML document.
func Parse(r io.Reader) (*Registry, error) {
	var doc registryXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("malformed registry XML: %w", err)
	}

	reg := &Registry{
		Comment:        doc.Comment,
		Enums:          make(map[string]string),
		Groups:         make(map[string][]string),
		MaxEnumNameLen: 1,
	}

	for _, t := range doc.Types {
		// Named type declarations are redundant per-api re-declarations
		// (int vs int32_t variants that broke win32 builds), except the
		// GLhandleARB special case.
		if t.NameAttr != "" && !typedefKeepNamed[t.NameAttr] {
			continue
		}
		if t.API != "" {
			continue
		}
		reg.Typedefs = append(reg.Typedefs, t.Typedef)
	}

	for _, e := range doc.Enums {
		if enumBlocklist[e.Name] {
			continue
		}
		if len(e.Name) > reg.MaxEnumNameLen {
			reg.MaxEnumNameLen = len(e.Name)
		}
		reg.Enums[e.Name] = e.Value
		for _, group := range strings.Split(e.Group, ",") {
			if group == "" {
				continue
			}
			reg.Groups[group] = append(reg.Groups[group], e.Name)
		}
	}

	for _, c := range doc.Commands {
		cmd := Command{
			Name:       c.Proto.Name,
			ReturnType: c.Proto.Type,
		}
		if c.Alias != nil {
			cmd.Alias = c.Alias.Name
		}
		for _, p := range c.Params {
			name := p.Name
			if renamed, ok := reservedParamNames[name]; ok {
				name = renamed
			}
			param := Param{Type: p.Type, Name: name}
			if groupedParamTypes[p.Type] {
				param.Group = p.Group
			}
			cmd.Params = append(cmd.Params, param)
		}
		reg.Commands = append(reg.Commands, cmd)
	}

	for _, f := range doc.Features {
		version, err := parseVersion(f.Number)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.Name, err)
		}
		reg.Features = append(reg.Features, Feature{
			API:      f.API,
			Name:     f.Name,
			Number:   f.Number,
			Version:  version,
			Commands: commandNames(f.Commands),
		})
	}

	for _, e := range doc.Extensions {
		reg.Extensions = append(reg.Extensions, Extension{
			Name:      e.Name,
			Supported: strings.Split(e.Supported, "|"),
			Commands:  commandNames(e.Commands),
		})
	}

	return reg, nil
}

// parseVersion converts a dotted feature number like "2.0" to its numeric
// form, major*10+minor.
func parseVersion(number string) (int, error) {
	m := versionRE.FindStringSubmatch(number)
	if m == nil {
		return 0, fmt.Errorf("unparsable feature version %q", number)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	return major*10 + minor, nil
}

func commandNames(refs []commandRefXML) []string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// --- raw XML shapes ---

type (
	registryXML struct {
		Comment    string         `xml:"comment"`
		Types      []typedefXML   `xml:"types>type"`
		Enums      []enumXML      `xml:"enums>enum"`
		Commands   []commandXML   `xml:"commands>command"`
		Features   []featureXML   `xml:"feature"`
		Extensions []extensionXML `xml:"extensions>extension"`
	}

	enumXML struct {
		Name  string `xml:"name,attr"`
		Value string `xml:"value,attr"`
		Group string `xml:"group,attr"`
	}

	commandXML struct {
		Proto  protoXML   `xml:"proto"`
		Params []paramXML `xml:"param"`
		Alias  *aliasXML  `xml:"alias"`
	}

	aliasXML struct {
		Name string `xml:"name,attr"`
	}

	featureXML struct {
		API      string          `xml:"api,attr"`
		Name     string          `xml:"name,attr"`
		Number   string          `xml:"number,attr"`
		Commands []commandRefXML `xml:"require>command"`
	}

	extensionXML struct {
		Name      string          `xml:"name,attr"`
		Supported string          `xml:"supported,attr"`
		Commands  []commandRefXML `xml:"require>command"`
	}

	commandRefXML struct {
		Name string `xml:"name,attr"`
	}

	// typedefXML wraps Typedef with the attributes that drive the
	// keep-or-skip decision.
	typedefXML struct {
		NameAttr string
		API      string
		Typedef
	}

	// protoXML and paramXML carry mixed text/element content: the type
	// text is everything (flattened across <ptype> children) before the
	// <name> element.
	protoXML struct {
		Type string
		Name string
	}

	paramXML struct {
		Type  string
		Name  string
		Group string
	}
)

// UnmarshalXML decodes a <type> element. The declaration prefix is the
// text before the first child element; an <apientry/> child marks a
// function-pointer typedef and the text between it and <name> is replaced
// by the calling-convention marker at emission time.
func (t *typedefXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "name":
			t.NameAttr = a.Value
		case "api":
			t.API = a.Value
		}
	}

	var sawChild, inName, afterName bool
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			switch {
			case inName:
				t.Name += string(tt)
			case afterName:
				t.Postfix += string(tt)
			case !sawChild:
				t.Prefix += string(tt)
			}
		case xml.StartElement:
			sawChild = true
			switch tt.Name.Local {
			case "apientry":
				t.APIEntry = true
				if err := d.Skip(); err != nil {
					return err
				}
			case "name":
				inName = true
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if tt.Name == start.Name {
				return nil
			}
			if inName && tt.Name.Local == "name" {
				inName = false
				afterName = true
			}
		}
	}
}

func (p *protoXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	typ, name, err := decodeTypeName(d, start)
	if err != nil {
		return err
	}
	p.Type, p.Name = typ, name
	return nil
}

func (p *paramXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local == "group" {
			p.Group = a.Value
		}
	}
	typ, name, err := decodeTypeName(d, start)
	if err != nil {
		return err
	}
	p.Type, p.Name = typ, name
	return nil
}

// decodeTypeName consumes an element with mixed content of the shape
// "TYPE TEXT <name>ident</name> ..." where the type text may span child
// elements such as <ptype>. Text after the name (array suffixes) is
// discarded, matching the declaration surface the generator emits.
func decodeTypeName(d *xml.Decoder, start xml.StartElement) (string, string, error) {
	var typ, name strings.Builder
	var inName, afterName bool
	for {
		tok, err := d.Token()
		if err != nil {
			return "", "", err
		}
		switch tt := tok.(type) {
		case xml.CharData:
			switch {
			case inName:
				name.Write(tt)
			case !afterName:
				typ.Write(tt)
			}
		case xml.StartElement:
			switch {
			case tt.Name.Local == "name" && !afterName:
				inName = true
			case afterName:
				if err := d.Skip(); err != nil {
					return "", "", err
				}
			}
			// Other children before the name (<ptype>) are walked
			// through so their text lands in the type.
		case xml.EndElement:
			if tt.Name == start.Name {
				return strings.TrimSpace(typ.String()), name.String(), nil
			}
			if inName && tt.Name.Local == "name" {
				inName = false
				afterName = true
			}
		}
	}
}
