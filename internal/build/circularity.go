package build

import "strings"

// CircularityLabel renders a cycle path as "a-x->b-y->a-x".
func CircularityLabel(path []*MetadataInfo) string {
	if len(path) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, info := range path {
		sb.WriteString(info.Name().String())
		sb.WriteString("->")
	}
	sb.WriteString(path[0].Name().String())
	return sb.String()
}
