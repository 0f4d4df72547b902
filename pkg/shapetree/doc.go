/*
Package shapetree implements the z-order and grouping engine over the design tree.

Every operation is a total function from a shape forest (and target ids) to a new
forest. Inputs are never written to: only the spine from the root to the touched
sibling list is copied, and every other subtree is shared with the input.

Lookups address shapes by index path (see Path), so there are no parent
back-references. Unknown ids are not errors; the tree comes back unchanged.
Rejected requests (grouping fewer than two shapes, ungrouping a non-group)
return the input together with a *domain.ValidationError.
*/
package shapetree
