package schema

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable report of an object type: memo,
// minimum-field count and every field with its declared tags.
func (ix *Index) Describe(typeName string) (string, error) {
	rt, err := ix.TemplateFor(typeName)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", rt.Name)
	if rt.Group != "" {
		fmt.Fprintf(&b, "  group: %s\n", rt.Group)
	}
	if rt.Memo != "" {
		for _, line := range strings.Split(rt.Memo, "\n") {
			fmt.Fprintf(&b, "  memo: %s\n", line)
		}
	}
	if rt.MinFields > 0 {
		fmt.Fprintf(&b, "  min-fields: %d\n", rt.MinFields)
	}

	for i := range rt.Fields {
		f := &rt.Fields[i]
		fmt.Fprintf(&b, "  %d. %s (%s)", i+1, f.Name, f.Type)

		var tags []string
		if f.Required {
			tags = append(tags, "required")
		}
		if f.HasDefault {
			tags = append(tags, fmt.Sprintf("default=%s", f.Default))
		}
		if f.Units != "" {
			tags = append(tags, fmt.Sprintf("units=%s", f.Units))
		}
		if f.HasMin {
			op := ">="
			if f.ExclusiveMin {
				op = ">"
			}
			tags = append(tags, fmt.Sprintf("%s%v", op, f.Min))
		}
		if f.HasMax {
			op := "<="
			if f.ExclusiveMax {
				op = "<"
			}
			tags = append(tags, fmt.Sprintf("%s%v", op, f.Max))
		}
		if f.Autosizable {
			tags = append(tags, "autosizable")
		}
		if len(f.Keys) > 0 {
			tags = append(tags, fmt.Sprintf("keys=[%s]", strings.Join(f.Keys, ", ")))
		}
		if len(tags) > 0 {
			fmt.Fprintf(&b, " %s", strings.Join(tags, ", "))
		}
		b.WriteByte('\n')

		if f.Note != "" {
			for _, line := range strings.Split(f.Note, "\n") {
				fmt.Fprintf(&b, "       %s\n", line)
			}
		}
	}

	return b.String(), nil
}
