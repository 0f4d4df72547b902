// Package schema provides a small type-checking layer for free-form property maps.
//
// A Schema maps field names to types. Validate rejects undeclared fields and
// values of the wrong type; declared fields may be omitted. It is used to check
// the initial properties handed to the editor before they are decoded into a
// shape, so callers get one aggregated error listing every bad field.
//
// Basic usage:
//
//	props := schema.Schema{
//	    "x":    schema.Float(),
//	    "text": schema.String(),
//	    "markerEnd": schema.Enum("arrow", "diamond", "circle"),
//	}
//
//	if err := schema.Validate(props, data); err != nil {
//	    for _, fe := range schema.Fields(err) {
//	        log.Printf("bad prop %s: %s", fe.Key, fe.Reason)
//	    }
//	}
package schema
