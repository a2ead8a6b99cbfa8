package schema

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

var fieldIDRe = regexp.MustCompile(`^([AN]\d+)\s*[,;]\s*(.*)$`)

// Parse reads an IDD source and builds the schema index.
//
// The source is split into \group chunks which are parsed concurrently;
// declaration order of groups, types and fields is preserved in the result.
func Parse(r io.Reader) (*Index, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("schema: read source: %w", err)
	}
	return ParseString(string(raw))
}

// ParseString parses an IDD source held in memory.
func ParseString(src string) (*Index, error) {
	groups := splitGroups(src)

	parsed := make([][]*RecordTemplate, len(groups))

	var g errgroup.Group
	for i, grp := range groups {
		g.Go(func() error {
			templates, err := parseGroup(grp.name, grp.body)
			if err != nil {
				return err
			}
			parsed[i] = templates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix := &Index{byName: make(map[string]*RecordTemplate)}
	for _, templates := range parsed {
		for _, rt := range templates {
			if _, dup := ix.byName[rt.Name]; dup {
				return nil, fmt.Errorf("schema: duplicate object type %q", rt.Name)
			}
			ix.byName[rt.Name] = rt
			ix.names = append(ix.names, rt.Name)
		}
	}
	return ix, nil
}

type group struct {
	name string
	body []string
}

// splitGroups strips comments and chops the source into \group chunks.
// Content before the first \group goes into an unnamed leading group.
func splitGroups(src string) []group {
	var groups []group
	cur := group{}

	for _, line := range strings.Split(src, "\n") {
		// IDD comments start with '!'; markers start with '\'.
		if i := strings.IndexByte(line, '!'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)

		if name, ok := markerArg(line, `\group`); ok {
			if len(cur.body) > 0 || cur.name != "" {
				groups = append(groups, cur)
			}
			cur = group{name: name}
			continue
		}
		cur.body = append(cur.body, line)
	}
	if len(cur.body) > 0 || cur.name != "" {
		groups = append(groups, cur)
	}
	return groups
}

// parseGroup splits a group body into object blocks (separated by blank
// lines) and parses each block into a template.
func parseGroup(name string, body []string) ([]*RecordTemplate, error) {
	var templates []*RecordTemplate
	var block []string

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		rt, err := parseObject(name, block)
		if err != nil {
			return err
		}
		if rt != nil {
			templates = append(templates, rt)
		}
		block = nil
		return nil
	}

	for _, line := range body {
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return templates, nil
}

// parseObject parses one object block: the type name up to the first comma,
// then object-level markers, then field declarations (A1/N1 ids with their
// markers).
func parseObject(groupName string, block []string) (*RecordTemplate, error) {
	text := strings.Join(block, "\n")
	name, rest, found := strings.Cut(text, ",")
	if !found {
		// A lone name terminated by ';' declares an object with no fields.
		name, _, _ = strings.Cut(text, ";")
		rest = ""
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("schema: object block in group %q has no type name", groupName)
	}

	rt := &RecordTemplate{Name: name, Group: groupName}

	var cur *FieldTemplate // nil until the first field id
	for _, line := range strings.Split(rest, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := fieldIDRe.FindStringSubmatch(line); m != nil {
			id := m[1]
			rt.Fields = append(rt.Fields, FieldTemplate{Name: id})
			cur = &rt.Fields[len(rt.Fields)-1]
			if id[0] == 'N' {
				cur.Type = FieldTypeReal
			}
			line = strings.TrimSpace(m[2])
			if line == "" {
				continue
			}
		}

		if !strings.HasPrefix(line, `\`) {
			continue
		}
		if err := applyMarker(rt, cur, line); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

func applyMarker(rt *RecordTemplate, cur *FieldTemplate, line string) error {
	marker, arg, _ := strings.Cut(line, " ")
	marker = strings.ToLower(marker)
	arg = strings.TrimSpace(arg)

	// Object-level markers.
	if cur == nil {
		switch marker {
		case `\memo`:
			if rt.Memo != "" {
				rt.Memo += "\n"
			}
			rt.Memo += arg
		case `\min-fields`:
			n, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("schema: %s: bad \\min-fields %q", rt.Name, arg)
			}
			rt.MinFields = n
		}
		// \unique-object, \required-object, \format etc. carry no
		// information the engine consumes.
		return nil
	}

	switch marker {
	case `\field`:
		cur.Name = arg
	case `\required-field`:
		cur.Required = true
	case `\type`:
		cur.Type = fieldTypeFor(arg)
	case `\key`:
		cur.Keys = append(cur.Keys, arg)
	case `\default`:
		cur.Default = arg
		cur.HasDefault = true
	case `\units`:
		cur.Units = arg
	case `\autosizable`, `\autocalculatable`:
		cur.Autosizable = true
	case `\note`:
		if cur.Note != "" {
			cur.Note += "\n"
		}
		cur.Note += arg
	case `\object-list`:
		cur.Type = FieldTypeObjectRef
	case `\minimum`, `\minimum>`:
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("schema: %s/%s: bad \\minimum %q", rt.Name, cur.Name, arg)
		}
		cur.Min = v
		cur.HasMin = true
		cur.ExclusiveMin = marker == `\minimum>`
	case `\maximum`, `\maximum<`:
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("schema: %s/%s: bad \\maximum %q", rt.Name, cur.Name, arg)
		}
		cur.Max = v
		cur.HasMax = true
		cur.ExclusiveMax = marker == `\maximum<`
	}
	return nil
}

func fieldTypeFor(s string) FieldType {
	switch strings.ToLower(s) {
	case "alpha":
		return FieldTypeText
	case "real":
		return FieldTypeReal
	case "integer":
		return FieldTypeInteger
	case "choice":
		return FieldTypeChoice
	case "object-list":
		return FieldTypeObjectRef
	case "node":
		return FieldTypeNode
	default:
		return FieldTypeText
	}
}

func markerArg(line, marker string) (string, bool) {
	if len(line) < len(marker) || !strings.EqualFold(line[:len(marker)], marker) {
		return "", false
	}
	rest := line[len(marker):]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
