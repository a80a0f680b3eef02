// Package document assembles a named transform document from a root
// transform.Buildable and serializes it. Assembly and serialization are two
// separate steps: Assemble validates and fixes the document's shape, Marshal
// turns it into JSON or YAML text with members in construction order.
package document
