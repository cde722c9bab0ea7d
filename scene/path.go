package scene

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPath = errors.New("scene: invalid path")

// Path addresses a spec: "/" is the pseudo-root, "/a/b" a prim and "/a/b.attr" a property.
type Path string

const AbsoluteRoot Path = "/"

func ParsePath(raw string) (Path, error) {
	if raw == string(AbsoluteRoot) {
		return AbsoluteRoot, nil
	}
	if !strings.HasPrefix(raw, "/") || strings.HasSuffix(raw, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}

	prim, prop, isProp := strings.Cut(raw, ".")
	if isProp && (prop == "" || strings.ContainsAny(prop, "/.")) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
	}

	for _, name := range strings.Split(prim[1:], "/") {
		if name == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, raw)
		}
	}

	return Path(raw), nil
}

// Validate reports whether p is well formed, for paths built without ParsePath.
func (p Path) Validate() error {
	_, err := ParsePath(string(p))
	return err
}

// MustPath is ParsePath for literals known to be valid.
func MustPath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string { return string(p) }

func (p Path) IsAbsoluteRoot() bool { return p == AbsoluteRoot }

func (p Path) IsPropertyPath() bool { return strings.Contains(string(p), ".") }

// PrimPath strips the property part, if any.
func (p Path) PrimPath() Path {
	prim, _, _ := strings.Cut(string(p), ".")
	return Path(prim)
}

// Name is the last element: the prim name or the property name.
func (p Path) Name() string {
	if p.IsAbsoluteRoot() {
		return ""
	}
	if _, prop, ok := strings.Cut(string(p), "."); ok {
		return prop
	}
	return string(p)[strings.LastIndex(string(p), "/")+1:]
}

func (p Path) Parent() Path {
	if p.IsAbsoluteRoot() {
		return AbsoluteRoot
	}
	if p.IsPropertyPath() {
		return p.PrimPath()
	}

	i := strings.LastIndex(string(p), "/")
	if i <= 0 {
		return AbsoluteRoot
	}
	return p[:i]
}

func (p Path) AppendChild(name string) Path {
	if p.IsAbsoluteRoot() {
		return Path("/" + name)
	}
	return Path(string(p) + "/" + name)
}

func (p Path) AppendProperty(name string) Path {
	return Path(string(p.PrimPath()) + "." + name)
}

// HasPrefix reports whether p is prefix itself or lies below it, properties included.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix.IsAbsoluteRoot() || p == prefix {
		return true
	}
	if prefix.IsPropertyPath() {
		return false
	}

	rest, ok := strings.CutPrefix(string(p), string(prefix))
	return ok && (strings.HasPrefix(rest, "/") || strings.HasPrefix(rest, "."))
}
