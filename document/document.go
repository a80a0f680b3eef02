package document

import (
	"fmt"

	"github.com/specialistvlad/isctransform/transform"
)

// RefreshAttribute is the attribute that carries the periodic refresh flag.
const RefreshAttribute = "requiresPeriodicRefresh"

// Option adjusts how a document is assembled.
type Option func(*options)

type options struct {
	refresh *bool
}

// WithPeriodicRefresh sets requiresPeriodicRefresh on the root transform's
// attributes. The flag is never placed at the top level of the document.
func WithPeriodicRefresh(refresh bool) Option {
	return func(o *options) { o.refresh = &refresh }
}

// Document is a named transform ready for serialization.
type Document struct {
	name string
	root transform.Buildable
	body *Object
}

// Assemble names root and fixes the document's shape. The root is not
// modified; when the refresh flag is requested a copy carries it.
func Assemble(name string, root transform.Buildable, opts ...Option) (*Document, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: document name must not be empty", transform.ErrInvalidConfiguration)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	body, err := assembleBody(name, root, o)
	if err != nil {
		return nil, err
	}
	return &Document{name: name, root: root, body: body}, nil
}

func assembleBody(name string, root transform.Buildable, o options) (*Object, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: document %q has no root transform", transform.ErrInvalidConfiguration, name)
	}
	switch root.Shape() {
	case transform.ShapeNode:
		n, ok := root.(*transform.Node)
		if !ok || n == nil {
			return nil, fmt.Errorf("%w: document %q has no root transform", transform.ErrInvalidConfiguration, name)
		}
		if o.refresh != nil {
			n = n.With(RefreshAttribute, transform.Bool(*o.refresh))
		}
		body := renderNode(n)
		out := newObject(body.Len()+1).set("name", name)
		for pair := body.members.Oldest(); pair != nil; pair = pair.Next() {
			out.set(pair.Key, pair.Value)
		}
		return out, nil

	case transform.ShapeEnvelope:
		u, ok := root.(*transform.UsernameGenerator)
		if !ok || u == nil {
			return nil, fmt.Errorf("%w: document %q has no root transform", transform.ErrInvalidConfiguration, name)
		}
		attrs := renderValue(u.Attributes()).(*Object)
		if o.refresh != nil {
			attrs.set(RefreshAttribute, *o.refresh)
		}
		return newObject(6).
			set("name", name).
			set("transform", renderNode(u.Transform())).
			set("attributes", attrs).
			set("isRequired", u.IsRequired()).
			set("type", u.AttributeType()).
			set("isMultiValued", u.IsMultiValued()), nil

	default:
		return nil, fmt.Errorf("%w: document %q: unsupported root shape %s", transform.ErrInvalidConfiguration, name, root.Shape())
	}
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Root returns the transform the document was assembled from.
func (d *Document) Root() transform.Buildable { return d.root }

// Object returns the document's ordered member tree.
func (d *Document) Object() *Object { return d.body }
