package hclload

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/specialistvlad/isctransform/transform"
)

// fromCty converts an evaluated HCL value into a transform value. A null
// value converts to nil, which constructors treat as absent.
func fromCty(v cty.Value, rng hcl.Range) (transform.Value, hcl.Diagnostics) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown value",
			Detail:   "The value cannot be determined while loading the configuration.",
			Subject:  rng.Ptr(),
		}}
	}
	v, _ = v.Unmark()

	ty := v.Type()
	switch {
	case ty == cty.String:
		return transform.String(v.AsString()), nil
	case ty == cty.Bool:
		return transform.Bool(v.True()), nil
	case ty == cty.Number:
		var i int
		if err := gocty.FromCtyValue(v, &i); err != nil {
			return nil, hcl.Diagnostics{{
				Severity: hcl.DiagError,
				Summary:  "Invalid number",
				Detail:   fmt.Sprintf("A whole number is required: %s.", err),
				Subject:  rng.Ptr(),
			}}
		}
		return transform.Int(i), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		var diags hcl.Diagnostics
		list := make(transform.List, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			item, itemDiags := fromCty(ev, rng)
			diags = append(diags, itemDiags...)
			if item == nil {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Null list element",
					Detail:   "Lists passed to transforms must not contain null.",
					Subject:  rng.Ptr(),
				})
				continue
			}
			list = append(list, item)
		}
		return list, diags
	case ty.IsMapType() || ty.IsObjectType():
		var diags hcl.Diagnostics
		var entries []transform.Entry
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			item, itemDiags := fromCty(ev, rng)
			diags = append(diags, itemDiags...)
			if item != nil {
				entries = append(entries, transform.Entry{Key: k.AsString(), Value: item})
			}
		}
		return transform.NewTable(entries...), diags
	}

	return nil, hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Unsupported value",
		Detail:   fmt.Sprintf("A value of type %s cannot be used in a transform.", ty.FriendlyName()),
		Subject:  rng.Ptr(),
	}}
}

// toCty converts a transform value back into a cty value so that scalar
// expressions can refer to it. ok is false when v holds a transform node.
func toCty(v transform.Value) (cty.Value, bool) {
	switch x := v.(type) {
	case transform.String:
		return cty.StringVal(string(x)), true
	case transform.Int:
		return cty.NumberIntVal(int64(x)), true
	case transform.Bool:
		return cty.BoolVal(bool(x)), true
	case transform.List:
		if len(x) == 0 {
			return cty.EmptyTupleVal, true
		}
		items := make([]cty.Value, len(x))
		for i, item := range x {
			cv, ok := toCty(item)
			if !ok {
				return cty.NilVal, false
			}
			items[i] = cv
		}
		return cty.TupleVal(items), true
	case *transform.Table:
		entries := x.Entries()
		if len(entries) == 0 {
			return cty.EmptyObjectVal, true
		}
		attrs := make(map[string]cty.Value, len(entries))
		for _, e := range entries {
			cv, ok := toCty(e.Value)
			if !ok {
				return cty.NilVal, false
			}
			attrs[e.Key] = cv
		}
		return cty.ObjectVal(attrs), true
	}
	return cty.NilVal, false
}
