package dom

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// AbsolutizeLinks rewrites relative img[src], a[href] and link[href] values
// under n into file:// URLs resolved against dir, so a page printed from a
// temporary location still finds its neighbours. Paths escaping root are
// left alone.
func AbsolutizeLinks(n *html.Node, dir, root string) error {
	if dir == "" {
		return nil
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	absRoot := absDir
	if root != "" {
		if absRoot, err = filepath.Abs(root); err != nil {
			return err
		}
	}
	Walk(n, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "img", "script":
			absolutize(n, "src", absDir, absRoot)
		case "a", "link":
			absolutize(n, "href", absDir, absRoot)
		}
	})
	return nil
}

func absolutize(n *html.Node, key, dir, root string) {
	val, ok := Attr(n, key)
	if !ok || !isRelative(val) {
		return
	}
	target, fragment, _ := strings.Cut(val, "#")
	p := filepath.Join(dir, filepath.FromSlash(target))
	if !within(p, root) {
		return
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p), Fragment: fragment}
	SetAttr(n, key, u.String())
}

func isRelative(p string) bool {
	if p == "" || strings.HasPrefix(p, "#") || strings.HasPrefix(p, "//") {
		return false
	}
	if u, err := url.Parse(p); err == nil && u.Scheme != "" {
		return false
	}
	return !filepath.IsAbs(p) && !strings.HasPrefix(p, "/")
}

func within(p, dir string) bool {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(p)+string(filepath.Separator), dir)
}
