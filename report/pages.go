package report

import (
	"strconv"
	"strings"

	"github.com/dhamidi/cobertura/coverage"
)

// Page ties a class to the file name its page is written under.
type Page struct {
	Name    string
	Package *coverage.Package
	Class   *coverage.Class
}

// PageName maps a class name onto [A-Za-z0-9._-]; every other byte becomes
// '_'. Names that would be empty or hidden files get a leading '_'.
func PageName(className string) string {
	var sb strings.Builder
	for i := 0; i < len(className); i++ {
		c := className[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9', c == '.', c == '_', c == '-':
			sb.WriteByte(c)
		default:
			sb.WriteByte('_')
		}
	}
	name := sb.String()
	if name == "" || name[0] == '.' || name == "index" {
		name = "_" + name
	}
	return name
}

// Pages lists one page per class in report order. Classes whose sanitized
// names collide, such as a class repeated in two packages, are told apart
// with "-2", "-3" and so on.
func Pages(doc *coverage.Document) []Page {
	var pages []Page
	taken := make(map[string]bool)
	for pkg, class := range doc.Classes() {
		base := PageName(class.Name)
		name := base
		for n := 2; taken[name]; n++ {
			name = base + "-" + strconv.Itoa(n)
		}
		taken[name] = true
		pages = append(pages, Page{Name: name, Package: pkg, Class: class})
	}
	return pages
}
