package transform

import (
	"strconv"

	"k8s.io/utils/ptr"
)

const (
	DefaultCloudMaxSize         = 255
	DefaultCloudMaxUniqueChecks = 50
)

// UsernameGeneratorParams configures a username generator. Nil or zero
// fields take the platform defaults: source check on, 255 characters, 50
// uniqueness checks.
type UsernameGeneratorParams struct {
	Patterns             []string
	SourceCheck          *bool
	CloudMaxSize         int
	CloudMaxUniqueChecks int
	Variables            []Var
}

// UsernameGenerator is the envelope the platform expects around a
// usernameGenerator transform: the inner node plus provisioning attributes.
type UsernameGenerator struct {
	transform            *Node
	cloudMaxSize         int
	cloudMaxUniqueChecks int
}

// NewUsernameGenerator builds the envelope. Patterns are tried in order;
// Variables name the sub-expressions the patterns refer to.
func NewUsernameGenerator(p UsernameGeneratorParams) (*UsernameGenerator, error) {
	if len(p.Patterns) == 0 {
		return nil, missing(KindUsernameGenerator, "patterns")
	}
	for i, pattern := range p.Patterns {
		if pattern == "" {
			return nil, invalid(KindUsernameGenerator, "patterns", "pattern %d is empty", i)
		}
	}
	maxSize := p.CloudMaxSize
	if maxSize == 0 {
		maxSize = DefaultCloudMaxSize
	}
	if maxSize < 0 {
		return nil, invalid(KindUsernameGenerator, "cloudMaxSize", "must be positive, got %d", maxSize)
	}
	maxChecks := p.CloudMaxUniqueChecks
	if maxChecks == 0 {
		maxChecks = DefaultCloudMaxUniqueChecks
	}
	if maxChecks < 0 {
		return nil, invalid(KindUsernameGenerator, "cloudMaxUniqueChecks", "must be positive, got %d", maxChecks)
	}

	b := newBuilder(KindUsernameGenerator).
		set("sourceCheck", Bool(ptr.Deref(p.SourceCheck, true))).
		set("patterns", Strings(p.Patterns...))
	if err := b.vars("variables", p.Variables); err != nil {
		return nil, err
	}
	return &UsernameGenerator{
		transform:            b.node(),
		cloudMaxSize:         maxSize,
		cloudMaxUniqueChecks: maxChecks,
	}, nil
}

// Transform returns the inner usernameGenerator node.
func (u *UsernameGenerator) Transform() *Node { return u.transform }

func (u *UsernameGenerator) CloudMaxSize() int { return u.cloudMaxSize }

func (u *UsernameGenerator) CloudMaxUniqueChecks() int { return u.cloudMaxUniqueChecks }

// Attributes returns the provisioning attributes of the envelope. Numbers
// are carried as strings and cloudRequired is always "true".
func (u *UsernameGenerator) Attributes() *Table {
	return NewTable(
		Entry{Key: "cloudMaxSize", Value: String(strconv.Itoa(u.cloudMaxSize))},
		Entry{Key: "cloudMaxUniqueChecks", Value: String(strconv.Itoa(u.cloudMaxUniqueChecks))},
		Entry{Key: "cloudRequired", Value: String("true")},
	)
}

// IsRequired is always false for generated usernames.
func (u *UsernameGenerator) IsRequired() bool { return false }

// AttributeType is the identity attribute type the envelope declares.
func (u *UsernameGenerator) AttributeType() string { return "string" }

// IsMultiValued is always false for generated usernames.
func (u *UsernameGenerator) IsMultiValued() bool { return false }

// Shape implements Buildable.
func (u *UsernameGenerator) Shape() Shape { return ShapeEnvelope }

func (*UsernameGenerator) buildable() {}
